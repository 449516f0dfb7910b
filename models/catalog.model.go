package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products; categories may nest one level via Parent.
type Category struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Parent      *primitive.ObjectID `bson:"parent,omitempty" json:"parent,omitempty"`
	IsActive    bool                `bson:"isActive" json:"isActive"`
}

// Brand is a product manufacturer or label.
type Brand struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Logo        string             `bson:"logo,omitempty" json:"logo,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
}
