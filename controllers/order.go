// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/services"
	"github.com/harshptk02/storefront-api/utils"
)

// OrderStore is the slice of the order repository the controller needs.
// UpdateStatus must reject the write when the order is no longer in the
// status the transition was validated against.
type OrderStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindPopulated(ctx context.Context, id primitive.ObjectID) (*models.PopulatedOrder, error)
	List(ctx context.Context, filter bson.M, page, limit int64) ([]models.PopulatedOrder, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, status models.OrderStatus, paymentStatus models.PaymentStatus) error
}

// OrderController handles order-related requests
type OrderController struct {
	Service      *services.OrderService
	Orders       OrderStore
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(service *services.OrderService, orders OrderStore, emailService *utils.EmailService) *OrderController {
	return &OrderController{
		Service:      service,
		Orders:       orders,
		EmailService: emailService,
	}
}

// orderRequest is the checkout payload. The per-item price is accepted for
// display parity with the frontend but the engine prices from the catalog.
type orderRequest struct {
	Items []struct {
		Product  string  `json:"product"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
	} `json:"items"`
	ShippingAddress models.Address `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	PaymentStatus   string         `json:"paymentStatus"`
}

// CreateOrder places a new order
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	_, userID, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	input := services.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		PaymentStatus:   models.PaymentStatus(req.PaymentStatus),
	}
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			utils.RespondMessage(w, http.StatusBadRequest, "Invalid product ID")
			return
		}
		input.Items = append(input.Items, services.OrderLine{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	order, err := oc.Service.PlaceOrder(ctx, userID, input)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	go func(order *models.PopulatedOrder) {
		if err := oc.EmailService.SendOrderConfirmationEmail(order); err != nil {
			log.Error().Err(err).Str("order", order.ID.Hex()).Msg("failed to send confirmation email")
		}
	}(order)

	utils.RespondJSON(w, http.StatusOK, order)
}

// ListOrders returns the caller's orders, or every order for admins
func (oc *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	claims, userID, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	page, limit := pagination(r)

	filter := bson.M{}
	if claims.Role != models.RoleAdmin {
		filter["user"] = userID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		parsed, err := services.ParseOrderStatus(status)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		filter["status"] = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orders, total, err := oc.Orders.List(ctx, filter, page, limit)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"orders":      orders,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// GetOrder returns a single order; non-admins may only read their own
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, userID, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Order not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Orders.FindByID(ctx, orderID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if claims.Role != models.RoleAdmin && order.User != userID {
		utils.RespondMessage(w, http.StatusForbidden, "Not authorized")
		return
	}

	populated, err := oc.Orders.FindPopulated(ctx, orderID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, populated)
}

// UpdateOrderStatus applies a status-machine transition (Admin only)
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Order not found")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	newStatus, err := services.ParseOrderStatus(req.Status)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Orders.FindByID(ctx, orderID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	prevStatus := order.Status
	if err := services.Transition(order, newStatus); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := oc.Orders.UpdateStatus(ctx, orderID, prevStatus, order.Status, order.PaymentStatus); err != nil {
		utils.RespondError(w, err)
		return
	}

	populated, err := oc.Orders.FindPopulated(ctx, orderID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	go func(order *models.PopulatedOrder) {
		if err := oc.EmailService.SendOrderStatusEmail(order); err != nil {
			log.Error().Err(err).Str("order", order.ID.Hex()).Msg("failed to send status email")
		}
	}(populated)

	utils.RespondJSON(w, http.StatusOK, populated)
}
