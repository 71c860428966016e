package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"candyshop/config"
	"candyshop/models"
	"candyshop/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// UserController handles registration and login.
type UserController struct {
	Collection *mongo.Collection
	Tokens     *utils.TokenService
	Config     *config.Config
	Log        *logrus.Logger
}

// NewUserController creates a new UserController.
func NewUserController(db *mongo.Database, tokens *utils.TokenService, cfg *config.Config, log *logrus.Logger) *UserController {
	return &UserController{
		Collection: db.Collection("users"),
		Tokens:     tokens,
		Config:     cfg,
		Log:        log,
	}
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	ManagerCode string `json:"managerCode"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  models.UserView `json:"user"`
}

// Register handles user registration. The account is usable immediately; a
// token is issued with the response.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := uc.Collection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		uc.Log.WithError(err).Error("register: email lookup failed")
		respondError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}
	if count > 0 {
		respondError(w, http.StatusBadRequest, "Email already in use")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.Log.WithError(err).Error("register: hashing failed")
		respondError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	// Exact, case-sensitive match; config guarantees the code is non-empty.
	role := models.RoleUser
	if req.ManagerCode == uc.Config.ManagerCode {
		role = models.RoleManager
	}

	now := time.Now()
	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := uc.Collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusBadRequest, "Email already in use")
			return
		}
		uc.Log.WithError(err).Error("register: insert failed")
		respondError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := uc.Tokens.Issue(user.ID.Hex(), user.Role)
	if err != nil {
		uc.Log.WithError(err).Error("register: token issue failed")
		respondError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user.View()})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user authentication. Unknown email and wrong password get
// the same response so accounts cannot be enumerated.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		uc.Log.WithError(err).Error("login: user lookup failed")
		respondError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := uc.Tokens.Issue(user.ID.Hex(), user.Role)
	if err != nil {
		uc.Log.WithError(err).Error("login: token issue failed")
		respondError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user.View()})
}
