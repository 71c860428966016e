package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The frontend reads order.createdAt; the wire key must stay camelCase like
// the stored field.
func TestOrderViewTimestampKey(t *testing.T) {
	order := Order{
		ID:        primitive.NewObjectID(),
		User:      primitive.NewObjectID(),
		Status:    OrderPending,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(order.View(nil))
	require.NoError(t, err)

	var keys map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Contains(t, keys, "createdAt")
	assert.NotContains(t, keys, "created_at")
	assert.Equal(t, "2026-03-01T12:00:00Z", keys["createdAt"])
}

func TestOrderViewPopulatedUser(t *testing.T) {
	owner := User{
		ID:    primitive.NewObjectID(),
		Name:  "Alice",
		Email: "a@x.com",
		Role:  RoleUser,
	}
	order := Order{ID: primitive.NewObjectID(), User: owner.ID, Status: OrderPending}

	v := order.View(&owner)
	require.NotNil(t, v.User)
	assert.Equal(t, owner.ID.Hex(), v.User.ID)
	assert.Equal(t, "Alice", v.User.Name)

	assert.Nil(t, order.View(nil).User)
}
