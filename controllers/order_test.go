package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/utils"
)

// fakeOrderStore serves one order. FindByID returns the stale snapshot while
// UpdateStatus validates against current, mimicking the repository's
// conditional write under a concurrent admin update.
type fakeOrderStore struct {
	current *models.Order
	stale   *models.Order
}

func (f *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	snapshot := f.current
	if f.stale != nil {
		snapshot = f.stale
	}
	if snapshot.ID != id {
		return nil, utils.NotFoundError("Order not found")
	}
	copied := *snapshot
	return &copied, nil
}

func (f *fakeOrderStore) FindPopulated(_ context.Context, id primitive.ObjectID) (*models.PopulatedOrder, error) {
	if f.current.ID != id {
		return nil, utils.NotFoundError("Order not found")
	}
	return &models.PopulatedOrder{
		ID:            f.current.ID,
		PaymentMethod: f.current.PaymentMethod,
		PaymentStatus: f.current.PaymentStatus,
		Status:        f.current.Status,
	}, nil
}

func (f *fakeOrderStore) List(_ context.Context, _ bson.M, _, _ int64) ([]models.PopulatedOrder, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, status models.OrderStatus, paymentStatus models.PaymentStatus) error {
	if f.current.ID != id {
		return utils.NotFoundError("Order not found")
	}
	if f.current.Status != from {
		return utils.ValidationError("Order status was changed by another update, please retry")
	}
	f.current.Status = status
	f.current.PaymentStatus = paymentStatus
	return nil
}

func statusRequest(orderID primitive.ObjectID, status string) *http.Request {
	req := httptest.NewRequest("PUT", "/api/orders/"+orderID.Hex()+"/status",
		strings.NewReader(`{"status":"`+status+`"}`))
	return mux.SetURLVars(req, map[string]string{"id": orderID.Hex()})
}

func TestUpdateOrderStatusAppliesTransition(t *testing.T) {
	order := &models.Order{
		ID:            primitive.NewObjectID(),
		PaymentMethod: models.PaymentCOD,
		PaymentStatus: models.PaymentPending,
		Status:        models.StatusShipped,
	}
	store := &fakeOrderStore{current: order}
	oc := NewOrderController(nil, store, nil)

	rec := httptest.NewRecorder()
	oc.UpdateOrderStatus(rec, statusRequest(order.ID, "delivered"))

	require.Equal(t, http.StatusOK, rec.Code)
	var populated models.PopulatedOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &populated))
	assert.Equal(t, models.StatusDelivered, populated.Status)
	assert.Equal(t, models.PaymentPaid, populated.PaymentStatus, "cod order delivered must be marked paid")
}

func TestUpdateOrderStatusRejectsIllegalEdge(t *testing.T) {
	order := &models.Order{
		ID:     primitive.NewObjectID(),
		Status: models.StatusPending,
	}
	store := &fakeOrderStore{current: order}
	oc := NewOrderController(nil, store, nil)

	rec := httptest.NewRecorder()
	oc.UpdateOrderStatus(rec, statusRequest(order.ID, "delivered"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestUpdateOrderStatusRejectsStaleRead(t *testing.T) {
	// Another admin moved the order to processing after this request read
	// it; the conditional write must refuse to re-apply pending→processing.
	orderID := primitive.NewObjectID()
	store := &fakeOrderStore{
		current: &models.Order{ID: orderID, Status: models.StatusProcessing},
		stale:   &models.Order{ID: orderID, Status: models.StatusPending},
	}
	oc := NewOrderController(nil, store, nil)

	rec := httptest.NewRecorder()
	oc.UpdateOrderStatus(rec, statusRequest(orderID, "processing"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.StatusProcessing, store.current.Status, "the concurrent winner must not be overwritten")
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	store := &fakeOrderStore{current: &models.Order{ID: primitive.NewObjectID(), Status: models.StatusPending}}
	oc := NewOrderController(nil, store, nil)

	rec := httptest.NewRecorder()
	oc.UpdateOrderStatus(rec, statusRequest(primitive.NewObjectID(), "processing"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
