package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a shipping destination. It doubles as a user's saved default
// address and as the per-order address captured at checkout.
type Address struct {
	Name       string `bson:"name" json:"name"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
	Phone      string `bson:"phone" json:"phone"`
}

// User represents a user in the system
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password,omitempty" json:"-"`
	Role            string             `bson:"role" json:"role"` // "user" or "admin"
	ProfilePhoto    string             `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	ShippingAddress *Address           `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserSummary is the trimmed user expansion embedded in order responses.
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
