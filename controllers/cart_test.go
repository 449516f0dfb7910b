package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshptk02/storefront-api/middleware"
	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/store"
	"github.com/harshptk02/storefront-api/utils"
)

type fakeProducts struct {
	products map[primitive.ObjectID]*models.Product
	failFor  map[primitive.ObjectID]error
}

func (f *fakeProducts) FindProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if err, ok := f.failFor[id]; ok {
		return nil, err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, utils.NotFoundError("Product not found")
	}
	copied := *p
	return &copied, nil
}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	claims := &utils.Claims{UserID: primitive.NewObjectID().Hex(), Role: models.RoleUser}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func TestGetCartDropsDeletedProductsFromViewOnly(t *testing.T) {
	kept := &models.Product{
		ID:     primitive.NewObjectID(),
		Name:   "Kettle",
		Images: []string{"/uploads/kettle.png"},
		Price:  25,
		Stock:  4,
	}
	deleted := primitive.NewObjectID()
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{kept.ID: kept}}

	cartStore := store.NewCartStore()
	cc := NewCartController(cartStore, products)

	req := authedRequest("GET", "/api/cart")
	claims, _ := middleware.ClaimsFromRequest(req)
	_, err := cartStore.Add(claims.UserID, kept.ID, 2)
	require.NoError(t, err)
	_, err = cartStore.Add(claims.UserID, deleted, 1)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	cc.GetCart(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var lines []models.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
	require.Len(t, lines, 1, "the deleted product must be dropped from the view")
	assert.Equal(t, kept.ID, lines[0].ID)
	assert.Equal(t, "Kettle", lines[0].Name)
	assert.Equal(t, 2, lines[0].Quantity)

	// Dropping is view-only: the stored cart still holds both entries.
	stored := cartStore.Get(claims.UserID)
	require.Len(t, stored, 2)
	assert.Equal(t, deleted, stored[1].ProductID)
}

func TestGetCartPropagatesCatalogFailures(t *testing.T) {
	broken := primitive.NewObjectID()
	products := &fakeProducts{
		products: map[primitive.ObjectID]*models.Product{},
		failFor:  map[primitive.ObjectID]error{broken: errors.New("connection reset")},
	}

	cartStore := store.NewCartStore()
	cc := NewCartController(cartStore, products)

	req := authedRequest("GET", "/api/cart")
	claims, _ := middleware.ClaimsFromRequest(req)
	_, err := cartStore.Add(claims.UserID, broken, 1)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	cc.GetCart(rec, req)

	// A lookup failure is not the same as a missing product: it must not
	// silently shrink the cart.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
