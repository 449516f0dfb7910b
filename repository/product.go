// Package repository holds the MongoDB adapters behind the service
// interfaces.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/utils"
)

// ProductRepo reads and mutates the products collection.
type ProductRepo struct {
	collection *mongo.Collection
}

// NewProductRepo creates a ProductRepo on the given database.
func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{collection: db.Collection("products")}
}

// FindProduct returns the product with the given id.
func (r *ProductRepo) FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFoundError("Product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock takes quantity units off a product's stock. The filter
// requires enough stock to remain, so the counter can never go negative
// even under concurrent checkouts of the last unit.
func (r *ProductRepo) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		var product models.Product
		if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
			return utils.NotFoundError("Product not found")
		}
		return utils.ValidationError("Insufficient stock for product: %s", product.Name)
	}
	return nil
}

// IncrementStock returns quantity units to a product's stock. Used by the
// order engine's compensation path.
func (r *ProductRepo) IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": quantity}},
	)
	return err
}
