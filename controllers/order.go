package controllers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"candyshop/middleware"
	"candyshop/models"
	"candyshop/utils"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client totals are recomputed server-side; disagreement beyond this
// tolerance rejects the order.
const totalTolerance = 0.01

// OrderController handles the order ledger.
type OrderController struct {
	OrderCollection   *mongo.Collection
	ProductCollection *mongo.Collection
	UserCollection    *mongo.Collection
	EmailService      *utils.EmailService
	Log               *logrus.Logger
}

// NewOrderController creates a new OrderController.
func NewOrderController(db *mongo.Database, emailService *utils.EmailService, log *logrus.Logger) *OrderController {
	return &OrderController{
		OrderCollection:   db.Collection("orders"),
		ProductCollection: db.Collection("products"),
		UserCollection:    db.Collection("users"),
		EmailService:      emailService,
		Log:               log,
	}
}

type orderItemRequest struct {
	Product string `json:"product"`
	Qty     int    `json:"qty"`
	// Client-supplied title/price are accepted on the wire but ignored;
	// snapshots come from the live catalog.
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

type createOrderRequest struct {
	Items   []orderItemRequest `json:"items"`
	Total   float64            `json:"total"`
	Address string             `json:"address"`
}

// CreateOrder places an order for the authenticated user. Item titles and
// unit prices are snapshotted from the current catalog and the total is
// recomputed; a client total that disagrees is rejected.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "Order has no items")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items := make([]models.OrderItem, 0, len(req.Items))
	total := 0.0
	for _, item := range req.Items {
		if item.Qty < 1 {
			respondError(w, http.StatusBadRequest, "Item quantity must be at least 1")
			return
		}
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Unknown product in order")
			return
		}
		var product models.Product
		err = oc.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(w, http.StatusBadRequest, "Unknown product in order")
				return
			}
			oc.Log.WithError(err).Error("orders: product lookup failed")
			respondError(w, http.StatusInternalServerError, "Error creating order")
			return
		}
		items = append(items, models.OrderItem{
			Product: product.ID,
			Title:   product.Title,
			Qty:     item.Qty,
			Price:   product.Price,
		})
		total += product.Price * float64(item.Qty)
	}

	if math.Abs(total-req.Total) > totalTolerance {
		respondError(w, http.StatusBadRequest, "Order total does not match current prices")
		return
	}

	now := time.Now()
	order := models.Order{
		User:      userID,
		Items:     items,
		Total:     total,
		Status:    models.OrderPending,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := oc.OrderCollection.InsertOne(ctx, order)
	if err != nil {
		oc.Log.WithError(err).Error("orders: insert failed")
		respondError(w, http.StatusInternalServerError, "Error creating order")
		return
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	if oc.EmailService != nil {
		var buyer models.User
		if err := oc.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&buyer); err == nil {
			go oc.EmailService.SendOrderConfirmation(buyer.Email, order)
		}
	}

	respondJSON(w, http.StatusOK, order.View(nil))
}

// GetOrders lists orders newest-first: all of them (with the owning user
// populated) for managers and admins, the caller's own otherwise.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	isManager := claims.Role == models.RoleManager || claims.Role == models.RoleAdmin
	if !isManager {
		userID, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		filter["user"] = userID
	}

	cursor, err := oc.OrderCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		oc.Log.WithError(err).Error("orders: find failed")
		respondError(w, http.StatusInternalServerError, "Error fetching orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		oc.Log.WithError(err).Error("orders: decode failed")
		respondError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}

	owners := map[primitive.ObjectID]*models.User{}
	if isManager {
		ids := make([]primitive.ObjectID, 0, len(orders))
		seen := map[primitive.ObjectID]bool{}
		for _, o := range orders {
			if !seen[o.User] {
				seen[o.User] = true
				ids = append(ids, o.User)
			}
		}
		if len(ids) > 0 {
			userCursor, err := oc.UserCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
			if err != nil {
				oc.Log.WithError(err).Error("orders: owner lookup failed")
				respondError(w, http.StatusInternalServerError, "Error fetching orders")
				return
			}
			var users []models.User
			if err := userCursor.All(ctx, &users); err != nil {
				oc.Log.WithError(err).Error("orders: owner decode failed")
				respondError(w, http.StatusInternalServerError, "Error fetching orders")
				return
			}
			for i := range users {
				owners[users[i].ID] = &users[i]
			}
		}
	}

	views := []models.OrderView{}
	for _, o := range orders {
		views = append(views, o.View(owners[o.User]))
	}

	respondJSON(w, http.StatusOK, views)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus sets an order's status; the status enum is the only
// mutation orders ever receive.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "Invalid order status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var updated models.Order
	err = oc.OrderCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		oc.Log.WithError(err).Error("orders: status update failed")
		respondError(w, http.StatusInternalServerError, "Error updating order")
		return
	}

	respondJSON(w, http.StatusOK, updated.View(nil))
}
