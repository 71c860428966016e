package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"candyshop/models"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductController handles catalog reads and manager-gated mutations.
type ProductController struct {
	Collection *mongo.Collection
	Log        *logrus.Logger
}

// NewProductController creates a new ProductController.
func NewProductController(db *mongo.Database, log *logrus.Logger) *ProductController {
	return &ProductController{
		Collection: db.Collection("products"),
		Log:        log,
	}
}

// ListProducts retrieves the whole catalog in the client-facing shape.
func (pc *ProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cursor, err := pc.Collection.Find(ctx, bson.M{})
	if err != nil {
		pc.Log.WithError(err).Error("products: find failed")
		respondError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	defer cursor.Close(ctx)

	views := []models.ProductView{}
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			pc.Log.WithError(err).Error("products: decode failed")
			respondError(w, http.StatusInternalServerError, "Error reading products")
			return
		}
		views = append(views, product.View())
	}
	if err := cursor.Err(); err != nil {
		pc.Log.WithError(err).Error("products: cursor failed")
		respondError(w, http.StatusInternalServerError, "Error reading products")
		return
	}

	respondJSON(w, http.StatusOK, views)
}

// GetProductByID retrieves a single product.
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	err = pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Not found")
			return
		}
		pc.Log.WithError(err).Error("products: lookup failed")
		respondError(w, http.StatusInternalServerError, "Error fetching product")
		return
	}

	respondJSON(w, http.StatusOK, product.View())
}

// CreateProduct adds a catalog entry. Input may use the legacy name/image
// fields; normalization happens in models.ProductInput.
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	title, ok := input.DisplayTitle()
	if !ok || title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if input.Price != nil && *input.Price < 0 {
		respondError(w, http.StatusBadRequest, "Price must be non-negative")
		return
	}
	if input.Stock != nil && *input.Stock < 0 {
		respondError(w, http.StatusBadRequest, "Stock must be non-negative")
		return
	}

	product := input.Document(time.Now())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := pc.Collection.InsertOne(ctx, product)
	if err != nil {
		pc.Log.WithError(err).Error("products: insert failed")
		respondError(w, http.StatusInternalServerError, "Error creating product")
		return
	}
	product.ID = result.InsertedID.(primitive.ObjectID)

	respondJSON(w, http.StatusOK, product.View())
}

// UpdateProduct applies a partial update: only supplied fields change.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	var input models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Price != nil && *input.Price < 0 {
		respondError(w, http.StatusBadRequest, "Price must be non-negative")
		return
	}
	if input.Stock != nil && *input.Stock < 0 {
		respondError(w, http.StatusBadRequest, "Stock must be non-negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Product
	err = pc.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": input.UpdateFields(time.Now())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Not found")
			return
		}
		pc.Log.WithError(err).Error("products: update failed")
		respondError(w, http.StatusInternalServerError, "Error updating product")
		return
	}

	respondJSON(w, http.StatusOK, updated.View())
}

// DeleteProduct removes a catalog entry. Deleting an absent id still
// succeeds; delete is idempotent.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := pc.Collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		pc.Log.WithError(err).Error("products: delete failed")
		respondError(w, http.StatusInternalServerError, "Error deleting product")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
