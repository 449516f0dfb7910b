package services

import (
	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/utils"
)

// legalTransitions is the delivery state machine. delivered and cancelled
// are terminal; cancelled is reachable from every non-terminal state.
var legalTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:    {models.StatusProcessing, models.StatusCancelled},
	models.StatusProcessing: {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:    {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered:  {},
	models.StatusCancelled:  {},
}

// ParseOrderStatus validates a client-supplied status string.
func ParseOrderStatus(s string) (models.OrderStatus, error) {
	status := models.OrderStatus(s)
	if _, ok := legalTransitions[status]; !ok {
		return "", utils.ValidationError("Invalid order status: %s", s)
	}
	return status, nil
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves an order to a new status, rejecting illegal edges.
// Reaching delivered on a cash-on-delivery order marks the payment as paid,
// since the courier collects on handover; no other transition touches the
// payment status.
func Transition(order *models.Order, to models.OrderStatus) error {
	if !CanTransition(order.Status, to) {
		return utils.ValidationError("Cannot change order status from %s to %s", order.Status, to)
	}
	order.Status = to
	if to == models.StatusDelivered && order.PaymentMethod == models.PaymentCOD {
		order.PaymentStatus = models.PaymentPaid
	}
	return nil
}
