// Command seed wipes the products collection and loads the sample
// confectionery catalog.
package main

import (
	"context"
	"time"

	"candyshop/config"
	"candyshop/models"
	"candyshop/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	log := logrus.New()

	cfg, err := config.LoadDB()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := utils.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer client.Disconnect(context.Background())

	collection := client.Database(cfg.DBName).Collection("products")

	if _, err := collection.DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("Failed to clear products: %v", err)
	}

	now := time.Now()
	products := []interface{}{
		models.Product{
			Title:       "Sesame Toffee",
			Description: "Crisp toffee squares loaded with roasted sesame seeds.",
			Price:       250,
			Images:      []string{},
			Stock:       50,
			Category:    "sesame",
			Featured:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		models.Product{
			Title:       "Roasted Peanuts",
			Description: "Slow-roasted peanuts in a caramel shell.",
			Price:       180,
			Images:      []string{},
			Stock:       60,
			Category:    "peanut",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		models.Product{
			Title:       "Semolina Halva",
			Description: "Traditional semolina halva with pine nuts.",
			Price:       320,
			Images:      []string{},
			Stock:       40,
			Category:    "semolina",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	result, err := collection.InsertMany(ctx, products)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}
	log.Infof("Seeded %d products", len(result.InsertedIDs))
}
