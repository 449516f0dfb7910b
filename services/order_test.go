package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/utils"
)

type fakeCatalog struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newFakeCatalog(products ...*models.Product) *fakeCatalog {
	c := &fakeCatalog{products: make(map[primitive.ObjectID]*models.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) FindProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, utils.NotFoundError("Product not found")
	}
	copied := *p
	return &copied, nil
}

func (c *fakeCatalog) DecrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return utils.NotFoundError("Product not found")
	}
	if p.Stock < quantity {
		return utils.ValidationError("Insufficient stock for product: %s", p.Name)
	}
	p.Stock -= quantity
	return nil
}

func (c *fakeCatalog) IncrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return utils.NotFoundError("Product not found")
	}
	p.Stock += quantity
	return nil
}

func (c *fakeCatalog) stock(id primitive.ObjectID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products[id].Stock
}

type fakeOrders struct {
	mu         sync.Mutex
	inserted   []*models.Order
	failInsert bool
}

func (o *fakeOrders) Insert(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failInsert {
		return primitive.NilObjectID, errors.New("insert failed")
	}
	order.ID = primitive.NewObjectID()
	o.inserted = append(o.inserted, order)
	return order.ID, nil
}

func (o *fakeOrders) FindPopulated(_ context.Context, id primitive.ObjectID) (*models.PopulatedOrder, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, order := range o.inserted {
		if order.ID == id {
			items := make([]models.PopulatedOrderItem, 0, len(order.Items))
			for _, item := range order.Items {
				items = append(items, models.PopulatedOrderItem{
					Product:  models.ProductSummary{ID: item.Product},
					Quantity: item.Quantity,
					Price:    item.Price,
				})
			}
			return &models.PopulatedOrder{
				ID:            order.ID,
				User:          models.UserSummary{ID: order.User},
				Items:         items,
				PaymentMethod: order.PaymentMethod,
				PaymentStatus: order.PaymentStatus,
				Status:        order.Status,
				Subtotal:      order.Subtotal,
				Tax:           order.Tax,
				ShippingCost:  order.ShippingCost,
				Total:         order.Total,
			}, nil
		}
	}
	return nil, utils.NotFoundError("Order not found")
}

func product(name string, price float64, stock int) *models.Product {
	return &models.Product{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Price: price,
		Stock: stock,
	}
}

func validAddress() models.Address {
	return models.Address{
		Name:       "Jordan Lee",
		Address:    "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
		Phone:      "555-0100",
	}
}

func requireAppError(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
}

func TestPlaceOrderComputesTotalsAndConsumesStock(t *testing.T) {
	productA := product("A", 20, 10)
	productB := product("B", 30, 5)
	catalog := newFakeCatalog(productA, productB)
	orders := &fakeOrders{}
	svc := NewOrderService(catalog, orders)

	order, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items: []OrderLine{
			{ProductID: productA.ID, Quantity: 2},
			{ProductID: productB.ID, Quantity: 1},
		},
		ShippingAddress: validAddress(),
		PaymentMethod:   models.PaymentCOD,
	})
	require.NoError(t, err)

	assert.InDelta(t, 70.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 7.0, order.Tax, 1e-9)
	assert.InDelta(t, 10.0, order.ShippingCost, 1e-9)
	assert.InDelta(t, 87.0, order.Total, 1e-9)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)

	assert.Equal(t, 8, catalog.stock(productA.ID))
	assert.Equal(t, 4, catalog.stock(productB.ID))
}

func TestPlaceOrderFreeShippingOverThreshold(t *testing.T) {
	p := product("A", 150, 3)
	catalog := newFakeCatalog(p)
	orders := &fakeOrders{}
	svc := NewOrderService(catalog, orders)

	order, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items:           []OrderLine{{ProductID: p.ID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   models.PaymentOnline,
	})
	require.NoError(t, err)

	assert.InDelta(t, 150.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 15.0, order.Tax, 1e-9)
	assert.InDelta(t, 0.0, order.ShippingCost, 1e-9)
	assert.InDelta(t, 165.0, order.Total, 1e-9)
}

func TestPlaceOrderUsesCatalogPriceNotClientPrice(t *testing.T) {
	// The request body carries a price, but the engine must capture the
	// catalog's price at order time.
	p := product("A", 42.50, 10)
	catalog := newFakeCatalog(p)
	orders := &fakeOrders{}
	svc := NewOrderService(catalog, orders)

	order, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items:           []OrderLine{{ProductID: p.ID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   models.PaymentCOD,
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.InDelta(t, 42.50, order.Items[0].Price, 1e-9)
}

func TestPlaceOrderEmptyItems(t *testing.T) {
	p := product("A", 20, 10)
	catalog := newFakeCatalog(p)
	orders := &fakeOrders{}
	svc := NewOrderService(catalog, orders)

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items:           nil,
		ShippingAddress: validAddress(),
		PaymentMethod:   models.PaymentCOD,
	})
	requireAppError(t, err, 400)

	assert.Empty(t, orders.inserted, "no order may exist after a rejected checkout")
	assert.Equal(t, 10, catalog.stock(p.ID), "no stock may be consumed")
}

func TestPlaceOrderRejectsNonPositiveQuantity(t *testing.T) {
	p := product("A", 20, 10)
	catalog := newFakeCatalog(p)
	svc := NewOrderService(catalog, &fakeOrders{})

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items:           []OrderLine{{ProductID: p.ID, Quantity: 0}},
		ShippingAddress: validAddress(),
		PaymentMethod:   models.PaymentCOD,
	})
	requireAppError(t, err, 400)
	assert.Equal(t, 10, catalog.stock(p.ID))
}

func TestPlaceOrderRejectsMissingAddress(t *testing.T) {
	p := product("A", 20, 10)
	svc := NewOrderService(newFakeCatalog(p), &fakeOrders{})

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items:         []OrderLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: models.PaymentCOD,
	})
	requireAppError(t, err, 400)
}

func TestPlaceOrderRejectsUnknownPaymentMethod(t *testing.T) {
	p := product("A", 20, 10)
	svc := NewOrderService(newFakeCatalog(p), &fakeOrders{})

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items:           []OrderLine{{ProductID: p.ID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   "wire",
	})
	requireAppError(t, err, 400)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	p := product("A", 20, 10)
	catalog := newFakeCatalog(p)
	orders := &fakeOrders{}
	svc := NewOrderService(catalog, orders)

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items:           []OrderLine{{ProductID: primitive.NewObjectID(), Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   models.PaymentCOD,
	})
	requireAppError(t, err, 404)
	assert.Empty(t, orders.inserted)
}

func TestPlaceOrderInsufficientStockRestoresEarlierLines(t *testing.T) {
	productA := product("A", 20, 10)
	productB := product("B", 30, 0)
	catalog := newFakeCatalog(productA, productB)
	orders := &fakeOrders{}
	svc := NewOrderService(catalog, orders)

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items: []OrderLine{
			{ProductID: productA.ID, Quantity: 2},
			{ProductID: productB.ID, Quantity: 1},
		},
		ShippingAddress: validAddress(),
		PaymentMethod:   models.PaymentCOD,
	})
	requireAppError(t, err, 400)

	assert.Equal(t, 10, catalog.stock(productA.ID), "first line's stock must be restored")
	assert.Equal(t, 0, catalog.stock(productB.ID))
	assert.Empty(t, orders.inserted)
}

func TestPlaceOrderInsertFailureRestoresAllStock(t *testing.T) {
	productA := product("A", 20, 10)
	productB := product("B", 30, 5)
	catalog := newFakeCatalog(productA, productB)
	orders := &fakeOrders{failInsert: true}
	svc := NewOrderService(catalog, orders)

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items: []OrderLine{
			{ProductID: productA.ID, Quantity: 2},
			{ProductID: productB.ID, Quantity: 1},
		},
		ShippingAddress: validAddress(),
		PaymentMethod:   models.PaymentCOD,
	})
	require.Error(t, err)

	assert.Equal(t, 10, catalog.stock(productA.ID))
	assert.Equal(t, 5, catalog.stock(productB.ID))
}

func TestPlaceOrderPaymentStatusPassthrough(t *testing.T) {
	p := product("A", 20, 10)
	catalog := newFakeCatalog(p)
	svc := NewOrderService(catalog, &fakeOrders{})

	// Simulated online payment marks the order paid up front.
	order, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items:           []OrderLine{{ProductID: p.ID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   models.PaymentOnline,
		PaymentStatus:   models.PaymentPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)

	_, err = svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Items:           []OrderLine{{ProductID: p.ID, Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   models.PaymentOnline,
		PaymentStatus:   "refunded",
	})
	requireAppError(t, err, 400)
}

func TestPlaceOrderConcurrentCheckoutOfLastUnit(t *testing.T) {
	// Two checkouts race on a single remaining unit; exactly one may win.
	p := product("A", 20, 1)
	catalog := newFakeCatalog(p)
	orders := &fakeOrders{}
	svc := NewOrderService(catalog, orders)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
				Items:           []OrderLine{{ProductID: p.ID, Quantity: 1}},
				ShippingAddress: validAddress(),
				PaymentMethod:   models.PaymentCOD,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var failures int
	for err := range results {
		if err != nil {
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two racing checkouts must fail")
	assert.Equal(t, 0, catalog.stock(p.ID))
	assert.Len(t, orders.inserted, 1)
}
