package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/store"
	"github.com/harshptk02/storefront-api/utils"
)

// ProductFinder is the slice of the catalog that cart hydration needs.
type ProductFinder interface {
	FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// CartController handles cart-related requests. The cart itself lives in
// process memory; only the hydration step touches the database.
type CartController struct {
	Store    *store.CartStore
	Products ProductFinder
}

// NewCartController creates a new CartController
func NewCartController(cartStore *store.CartStore, products ProductFinder) *CartController {
	return &CartController{
		Store:    cartStore,
		Products: products,
	}
}

// hydrate resolves each cart item against the catalog concurrently. Items
// whose product no longer exists are dropped from the returned view only;
// the stored cart is left alone.
func (cc *CartController) hydrate(ctx context.Context, items []models.CartItem) ([]models.CartLine, error) {
	lines := make([]*models.CartLine, len(items))

	g, ctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			product, err := cc.Products.FindProduct(ctx, item.ProductID)
			if err != nil {
				var appErr *utils.AppError
				if errors.As(err, &appErr) && appErr.Status == http.StatusNotFound {
					return nil
				}
				return err
			}
			lines[i] = &models.CartLine{
				ID:       product.ID,
				Name:     product.Name,
				Images:   product.Images,
				Price:    product.Price,
				Stock:    product.Stock,
				Quantity: item.Quantity,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hydrated := []models.CartLine{}
	for _, line := range lines {
		if line != nil {
			hydrated = append(hydrated, *line)
		}
	}
	return hydrated, nil
}

func (cc *CartController) respondCart(w http.ResponseWriter, r *http.Request, items []models.CartItem) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	hydrated, err := cc.hydrate(ctx, items)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, hydrated)
}

// GetCart returns the user's hydrated cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	claims, _, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	cc.respondCart(w, r, cc.Store.Get(claims.UserID))
}

// AddToCart adds a product to the user's cart, merging quantities
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	claims, _, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	items, err := cc.Store.Add(claims.UserID, productID, req.Quantity)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	cc.respondCart(w, r, items)
}

// UpdateCart sets an existing cart item's quantity
func (cc *CartController) UpdateCart(w http.ResponseWriter, r *http.Request) {
	claims, _, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	items, err := cc.Store.Update(claims.UserID, productID, req.Quantity)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	cc.respondCart(w, r, items)
}

// RemoveFromCart removes a product from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	claims, _, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["productId"])
	if err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	cc.respondCart(w, r, cc.Store.Remove(claims.UserID, productID))
}

// ClearCart empties the user's cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	claims, _, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	cc.Store.Clear(claims.UserID)
	utils.RespondMessage(w, http.StatusOK, "Cart cleared")
}
