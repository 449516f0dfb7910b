package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a (product, quantity) pair scoped to one user.
type CartItem struct {
	ProductID primitive.ObjectID `json:"productId"`
	Quantity  int                `json:"quantity"`
}

// CartLine is one hydrated cart entry as returned to the client: the stored
// item joined with the current catalog record.
type CartLine struct {
	ID       primitive.ObjectID `json:"_id"`
	Name     string             `json:"name"`
	Images   []string           `json:"images"`
	Price    float64            `json:"price"`
	Stock    int                `json:"stock"`
	Quantity int                `json:"quantity"`
}
