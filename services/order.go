// Package services contains the order engine and the order status machine.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/pricing"
	"github.com/harshptk02/storefront-api/utils"
)

// Catalog is the slice of the product store the order engine needs.
// DecrementStock must fail without mutating anything when fewer than
// quantity units remain.
type Catalog interface {
	FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

// Orders persists order documents.
type Orders interface {
	Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	FindPopulated(ctx context.Context, id primitive.ObjectID) (*models.PopulatedOrder, error)
}

// OrderLine is one requested order line. The client also submits a unit
// price for display, but the engine prices lines from the catalog.
type OrderLine struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// PlaceOrderInput is a validated-enough checkout request; PlaceOrder does
// the real validation before any mutation.
type PlaceOrderInput struct {
	Items           []OrderLine
	ShippingAddress models.Address
	PaymentMethod   models.PaymentMethod
	PaymentStatus   models.PaymentStatus
}

// OrderService turns a cart snapshot into a persisted order: it prices the
// lines, consumes stock, and writes the order document.
type OrderService struct {
	catalog Catalog
	orders  Orders
}

// NewOrderService creates an OrderService.
func NewOrderService(catalog Catalog, orders Orders) *OrderService {
	return &OrderService{catalog: catalog, orders: orders}
}

// PlaceOrder validates the input, prices every line from the current
// catalog, decrements stock with an insufficient-stock guard, and inserts
// the order. Stock already consumed is restored if a later step fails, so a
// rejected checkout leaves the catalog untouched.
func (s *OrderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, in PlaceOrderInput) (*models.PopulatedOrder, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentPending
	}

	// Price from the catalog, not from the request body. The submitted
	// price is display-only; the captured line price is authoritative.
	items := make([]models.OrderItem, 0, len(in.Items))
	lines := make([]pricing.Line, 0, len(in.Items))
	for _, line := range in.Items {
		product, err := s.catalog.FindProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			Product:  product.ID,
			Quantity: line.Quantity,
			Price:    product.Price,
		})
		lines = append(lines, pricing.Line{
			UnitPrice: decimal.NewFromFloat(product.Price),
			Quantity:  line.Quantity,
		})
	}

	quote := pricing.Calculate(lines)

	// Consume stock line by line. Each decrement is guarded, so two
	// checkouts racing on the last unit cannot both succeed; on failure the
	// lines already consumed are restored.
	consumed := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if err := s.catalog.DecrementStock(ctx, item.Product, item.Quantity); err != nil {
			s.restoreStock(ctx, consumed)
			return nil, err
		}
		consumed = append(consumed, item)
	}

	order := &models.Order{
		User:            userID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   in.PaymentStatus,
		Status:          models.StatusPending,
		Subtotal:        quote.Subtotal.InexactFloat64(),
		Tax:             quote.Tax.InexactFloat64(),
		ShippingCost:    quote.ShippingCost.InexactFloat64(),
		Total:           quote.Total.InexactFloat64(),
		CreatedAt:       time.Now().UTC(),
	}

	orderID, err := s.orders.Insert(ctx, order)
	if err != nil {
		s.restoreStock(ctx, consumed)
		return nil, err
	}

	return s.orders.FindPopulated(ctx, orderID)
}

// restoreStock is the compensation path: re-increment every line already
// decremented. Best-effort; failures are logged, not returned.
func (s *OrderService) restoreStock(ctx context.Context, consumed []models.OrderItem) {
	for _, item := range consumed {
		if err := s.catalog.IncrementStock(ctx, item.Product, item.Quantity); err != nil {
			log.Error().
				Err(err).
				Str("product", item.Product.Hex()).
				Int("quantity", item.Quantity).
				Msg("failed to restore stock after aborted order")
		}
	}
}

func validateInput(in PlaceOrderInput) error {
	if len(in.Items) == 0 {
		return utils.ValidationError("Items are required")
	}
	for _, line := range in.Items {
		if line.ProductID.IsZero() {
			return utils.ValidationError("Product ID is required")
		}
		if line.Quantity < 1 {
			return utils.ValidationError("Quantity must be a positive number")
		}
	}
	if in.ShippingAddress.Name == "" || in.ShippingAddress.Address == "" || in.ShippingAddress.City == "" {
		return utils.ValidationError("Shipping address is required")
	}
	switch in.PaymentMethod {
	case models.PaymentCOD, models.PaymentOnline:
	default:
		return utils.ValidationError("Payment method is required")
	}
	switch in.PaymentStatus {
	case "", models.PaymentPending, models.PaymentPaid:
	default:
		return utils.ValidationError("Invalid payment status: %s", in.PaymentStatus)
	}
	return nil
}
