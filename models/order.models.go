package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the delivery state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// PaymentMethod is how the buyer chose to pay.
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

// PaymentStatus tracks whether funds have been captured. It is independent
// of the delivery status.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// OrderItem is one order line. Price is the unit price captured at order
// time; later catalog changes never alter it.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

// Order represents a placed order. The money fields are computed once at
// creation; only Status and PaymentStatus change afterwards.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress Address            `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus   PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	Status          OrderStatus        `bson:"status" json:"status"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Tax             float64            `bson:"tax" json:"tax"`
	ShippingCost    float64            `bson:"shippingCost" json:"shippingCost"`
	Total           float64            `bson:"total" json:"total"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// PopulatedOrderItem is an order line with its product expanded for display.
type PopulatedOrderItem struct {
	Product  ProductSummary `json:"product"`
	Quantity int            `json:"quantity"`
	Price    float64        `json:"price"`
}

// PopulatedOrder is the order shape returned by the API: user and product
// references expanded to display summaries.
type PopulatedOrder struct {
	ID              primitive.ObjectID   `json:"id"`
	User            UserSummary          `json:"user"`
	Items           []PopulatedOrderItem `json:"items"`
	ShippingAddress Address              `json:"shippingAddress"`
	PaymentMethod   PaymentMethod        `json:"paymentMethod"`
	PaymentStatus   PaymentStatus        `json:"paymentStatus"`
	Status          OrderStatus          `json:"status"`
	Subtotal        float64              `json:"subtotal"`
	Tax             float64              `json:"tax"`
	ShippingCost    float64              `json:"shippingCost"`
	Total           float64              `json:"total"`
	CreatedAt       time.Time            `json:"createdAt"`
}
