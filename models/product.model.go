package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog item
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Stock         int                `bson:"stock" json:"stock"`
	Category      primitive.ObjectID `bson:"category" json:"category"`
	Brand         primitive.ObjectID `bson:"brand" json:"brand"`
	Images        []string           `bson:"images" json:"images"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	IsFeatured    bool               `bson:"isFeatured" json:"isFeatured"`
	SKU           string             `bson:"sku" json:"sku"`
	Rating        float64            `bson:"rating" json:"rating"`
	NumReviews    int                `bson:"numReviews" json:"numReviews"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProductSummary is the trimmed product expansion embedded in order responses.
type ProductSummary struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	Images []string           `bson:"images" json:"images"`
	Price  float64            `bson:"price" json:"price"`
}
