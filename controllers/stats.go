package controllers

import (
	"context"
	"net/http"
	"time"

	"candyshop/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stock at or below this count (but above zero) counts as low.
const lowStockThreshold = 10

// StatsController summarizes inventory and order figures for the manager
// dashboard.
type StatsController struct {
	ProductCollection *mongo.Collection
	OrderCollection   *mongo.Collection
	Log               *logrus.Logger
}

// NewStatsController creates a new StatsController.
func NewStatsController(db *mongo.Database, log *logrus.Logger) *StatsController {
	return &StatsController{
		ProductCollection: db.Collection("products"),
		OrderCollection:   db.Collection("orders"),
		Log:               log,
	}
}

type inventoryStats struct {
	TotalProducts int64   `json:"totalProducts"`
	LowStock      int64   `json:"lowStock"`
	OutOfStock    int64   `json:"outOfStock"`
	TotalOrders   int64   `json:"totalOrders"`
	PendingOrders int64   `json:"pendingOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// GetStats computes dashboard figures. Revenue counts completed orders
// only; pending and cancelled orders contribute nothing.
func (sc *StatsController) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats := inventoryStats{}
	var err error

	if stats.TotalProducts, err = sc.ProductCollection.CountDocuments(ctx, bson.M{}); err != nil {
		sc.fail(w, err)
		return
	}
	lowStock := bson.M{"stock": bson.M{"$gt": 0, "$lte": lowStockThreshold}}
	if stats.LowStock, err = sc.ProductCollection.CountDocuments(ctx, lowStock); err != nil {
		sc.fail(w, err)
		return
	}
	if stats.OutOfStock, err = sc.ProductCollection.CountDocuments(ctx, bson.M{"stock": bson.M{"$lte": 0}}); err != nil {
		sc.fail(w, err)
		return
	}
	if stats.TotalOrders, err = sc.OrderCollection.CountDocuments(ctx, bson.M{}); err != nil {
		sc.fail(w, err)
		return
	}
	if stats.PendingOrders, err = sc.OrderCollection.CountDocuments(ctx, bson.M{"status": models.OrderPending}); err != nil {
		sc.fail(w, err)
		return
	}

	cursor, err := sc.OrderCollection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.OrderCompleted}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total"}}}},
	})
	if err != nil {
		sc.fail(w, err)
		return
	}
	defer cursor.Close(ctx)

	var result []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		sc.fail(w, err)
		return
	}
	if len(result) > 0 {
		stats.TotalRevenue = result[0].Revenue
	}

	respondJSON(w, http.StatusOK, stats)
}

func (sc *StatsController) fail(w http.ResponseWriter, err error) {
	sc.Log.WithError(err).Error("stats: query failed")
	respondError(w, http.StatusInternalServerError, "Error computing stats")
}
