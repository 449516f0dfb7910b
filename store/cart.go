// Package store holds the per-user cart and wishlist state in process
// memory. Nothing here is persisted: a restart empties every cart and
// wishlist, which is a documented property of the system, not an accident.
package store

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/utils"
)

// CartStore keeps an ordered list of cart items per user. All mutations go
// through a single mutex, so two concurrent requests for the same user
// cannot lose each other's update.
type CartStore struct {
	mu    sync.Mutex
	carts map[string][]models.CartItem
}

// NewCartStore creates an empty CartStore.
func NewCartStore() *CartStore {
	return &CartStore{
		carts: make(map[string][]models.CartItem),
	}
}

// Get returns a copy of the user's cart. Callers may modify the returned
// slice freely.
func (s *CartStore) Get(userID string) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.carts[userID])
}

// Add puts quantity units of a product in the user's cart. If the product is
// already there the quantities are merged into a single entry.
func (s *CartStore) Add(userID string, productID primitive.ObjectID, quantity int) ([]models.CartItem, error) {
	if quantity < 1 {
		return nil, utils.ValidationError("Quantity must be a positive number")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	merged := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, models.CartItem{ProductID: productID, Quantity: quantity})
	}
	s.carts[userID] = items
	return copyItems(items), nil
}

// Update sets (not increments) the quantity of an existing entry.
func (s *CartStore) Update(userID string, productID primitive.ObjectID, quantity int) ([]models.CartItem, error) {
	if quantity < 1 {
		return nil, utils.ValidationError("Quantity must be a positive number")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return copyItems(items), nil
		}
	}
	return nil, utils.NotFoundError("Item not found in cart")
}

// Remove deletes the entry for productID. Removing an absent entry is a
// no-op.
func (s *CartStore) Remove(userID string, productID primitive.ObjectID) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.carts[userID] = kept
	return copyItems(kept)
}

// Clear empties the user's cart. Clearing an empty cart is a no-op.
func (s *CartStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

func copyItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
