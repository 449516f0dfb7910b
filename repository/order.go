package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/utils"
)

// OrderRepo reads and mutates the orders collection, expanding user and
// product references for display.
type OrderRepo struct {
	orders   *mongo.Collection
	users    *mongo.Collection
	products *mongo.Collection
}

// NewOrderRepo creates an OrderRepo on the given database.
func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{
		orders:   db.Collection("orders"),
		users:    db.Collection("users"),
		products: db.Collection("products"),
	}
}

// Insert writes a new order and returns its id.
func (r *OrderRepo) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	result, err := r.orders.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// FindByID returns the raw order document.
func (r *OrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFoundError("Order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindPopulated returns the order with user and product references
// expanded.
func (r *OrderRepo) FindPopulated(ctx context.Context, id primitive.ObjectID) (*models.PopulatedOrder, error) {
	order, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.populate(ctx, order)
}

// List returns one page of populated orders matching filter, newest first,
// along with the total match count.
func (r *OrderRepo) List(ctx context.Context, filter bson.M, page, limit int64) ([]models.PopulatedOrder, int64, error) {
	total, err := r.orders.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	populated := []models.PopulatedOrder{}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, 0, err
		}
		p, err := r.populate(ctx, &order)
		if err != nil {
			return nil, 0, err
		}
		populated = append(populated, *p)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return populated, total, nil
}

// UpdateStatus persists a status-machine transition. The filter requires
// the order to still be in the status the transition was validated against,
// so two concurrent updates cannot both apply from the same stale state.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, status models.OrderStatus, paymentStatus models.PaymentStatus) error {
	result, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": status, "paymentStatus": paymentStatus}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if err := r.orders.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return utils.NotFoundError("Order not found")
		}
		return utils.ValidationError("Order status was changed by another update, please retry")
	}
	return nil
}

// populate expands the order's user and product references. A product that
// was deleted after the order keeps its captured price and quantity; only
// the display summary degrades to the bare id.
func (r *OrderRepo) populate(ctx context.Context, order *models.Order) (*models.PopulatedOrder, error) {
	var user models.UserSummary
	err := r.users.FindOne(ctx, bson.M{"_id": order.User},
		options.FindOne().SetProjection(bson.M{"name": 1, "email": 1}),
	).Decode(&user)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	items := make([]models.PopulatedOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		summary := models.ProductSummary{ID: item.Product}
		err := r.products.FindOne(ctx, bson.M{"_id": item.Product},
			options.FindOne().SetProjection(bson.M{"name": 1, "images": 1, "price": 1}),
		).Decode(&summary)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		items = append(items, models.PopulatedOrderItem{
			Product:  summary,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	return &models.PopulatedOrder{
		ID:              order.ID,
		User:            user,
		Items:           items,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		Status:          order.Status,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		ShippingCost:    order.ShippingCost,
		Total:           order.Total,
		CreatedAt:       order.CreatedAt,
	}, nil
}
