package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshptk02/storefront-api/store"
	"github.com/harshptk02/storefront-api/utils"
)

// WishlistController handles wishlist-related requests. Responses are the
// raw product id array; callers batch-fetch product details separately.
type WishlistController struct {
	Store *store.WishlistStore
}

// NewWishlistController creates a new WishlistController
func NewWishlistController(wishlistStore *store.WishlistStore) *WishlistController {
	return &WishlistController{Store: wishlistStore}
}

// GetWishlist returns the user's wishlist
func (wc *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	claims, _, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, wc.Store.Get(claims.UserID))
}

// AddToWishlist adds a product id; re-adding is a no-op
func (wc *WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	claims, _, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req struct {
		ProductID string `json:"productId"`
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

	utils.RespondJSON(w, http.StatusOK, wc.Store.Add(claims.UserID, productID))
}

// RemoveFromWishlist removes a product id; removing an absent id is a no-op
func (wc *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
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

	utils.RespondJSON(w, http.StatusOK, wc.Store.Remove(claims.UserID, productID))
}

// ClearWishlist empties the user's wishlist
func (wc *WishlistController) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	claims, _, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	wc.Store.Clear(claims.UserID)
	utils.RespondMessage(w, http.StatusOK, "Wishlist cleared")
}
