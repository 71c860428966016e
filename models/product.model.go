package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the stored catalog entry. Field names match the storage schema
// (title, images array); clients see the flattened ProductView instead.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Images      []string           `bson:"images" json:"images"`
	Stock       int                `bson:"stock" json:"stock"`
	Category    string             `bson:"category" json:"category"`
	Featured    bool               `bson:"featured,omitempty" json:"featured"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// ProductView is the client-facing product shape: the stored title becomes
// name, and the first image (or "") becomes the single display image.
type ProductView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Featured    bool    `json:"featured"`
}

// View maps a stored product to the wire shape.
func (p Product) View() ProductView {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	return ProductView{
		ID:          p.ID.Hex(),
		Name:        p.Title,
		Description: p.Description,
		Price:       p.Price,
		Image:       image,
		Category:    p.Category,
		Stock:       p.Stock,
		Featured:    p.Featured,
	}
}

// ProductInput is the wire shape accepted by create and update. It tolerates
// both the storage field names and the legacy client ones (name for title,
// a single image for the images array); normalization happens here and
// nowhere else.
type ProductInput struct {
	Title       *string  `json:"title"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Images      []string `json:"images"`
	Image       *string  `json:"image"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Featured    *bool    `json:"featured"`
}

// DisplayTitle resolves the title/name alias. The second return reports
// whether either field was supplied.
func (in ProductInput) DisplayTitle() (string, bool) {
	if in.Title != nil {
		return *in.Title, true
	}
	if in.Name != nil {
		return *in.Name, true
	}
	return "", false
}

// ImageList resolves the images/image alias, always yielding the array form.
func (in ProductInput) ImageList() ([]string, bool) {
	if in.Images != nil {
		return in.Images, true
	}
	if in.Image != nil {
		if *in.Image == "" {
			return []string{}, true
		}
		return []string{*in.Image}, true
	}
	return nil, false
}

// Document builds a full product document for insertion, applying defaults
// for fields the client omitted.
func (in ProductInput) Document(now time.Time) Product {
	p := Product{
		Images:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if title, ok := in.DisplayTitle(); ok {
		p.Title = title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if images, ok := in.ImageList(); ok {
		p.Images = images
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	return p
}

// UpdateFields builds the $set document for a partial update: only supplied
// fields are touched.
func (in ProductInput) UpdateFields(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if title, ok := in.DisplayTitle(); ok {
		set["title"] = title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if images, ok := in.ImageList(); ok {
		set["images"] = images
	}
	if in.Stock != nil {
		set["stock"] = *in.Stock
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.Featured != nil {
		set["featured"] = *in.Featured
	}
	return set
}
