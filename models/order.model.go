package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Status is the only field mutated after creation.
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is one of the three order statuses.
func ValidOrderStatus(s string) bool {
	return s == OrderPending || s == OrderCompleted || s == OrderCancelled
}

// OrderItem is an immutable snapshot of a purchased product: the title and
// unit price are copied at checkout and never re-derived from the catalog.
type OrderItem struct {
	Product primitive.ObjectID `bson:"product" json:"product"`
	Title   string             `bson:"title" json:"title"`
	Qty     int                `bson:"qty" json:"qty"`
	Price   float64            `bson:"price" json:"price"`
}

// Order is a purchase record. Orders are never deleted.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Items     []OrderItem        `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	Status    string             `bson:"status" json:"status"`
	Address   string             `bson:"address" json:"address"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderView is the wire shape for order listings. User carries the populated
// owner for manager listings and is omitted otherwise.
type OrderView struct {
	ID        string      `json:"id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	Address   string      `json:"address"`
	CreatedAt time.Time   `json:"createdAt"`
	User      *UserView   `json:"user,omitempty"`
}

// View maps an order to its wire shape; owner may be nil.
func (o Order) View(owner *User) OrderView {
	v := OrderView{
		ID:        o.ID.Hex(),
		Items:     o.Items,
		Total:     o.Total,
		Status:    o.Status,
		Address:   o.Address,
		CreatedAt: o.CreatedAt,
	}
	if owner != nil {
		uv := owner.View()
		v.User = &uv
	}
	return v
}
