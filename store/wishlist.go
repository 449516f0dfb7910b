package store

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistStore keeps a set of product ids per user, in insertion order.
// Same in-memory lifetime as CartStore.
type WishlistStore struct {
	mu        sync.Mutex
	wishlists map[string][]primitive.ObjectID
}

// NewWishlistStore creates an empty WishlistStore.
func NewWishlistStore() *WishlistStore {
	return &WishlistStore{
		wishlists: make(map[string][]primitive.ObjectID),
	}
}

// Get returns a copy of the user's wishlist.
func (s *WishlistStore) Get(userID string) []primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyIDs(s.wishlists[userID])
}

// Add inserts a product id. Adding an id that is already present is a no-op
// (set semantics).
func (s *WishlistStore) Add(userID string, productID primitive.ObjectID) []primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.wishlists[userID]
	for _, id := range ids {
		if id == productID {
			return copyIDs(ids)
		}
	}
	ids = append(ids, productID)
	s.wishlists[userID] = ids
	return copyIDs(ids)
}

// Remove deletes a product id. Removing an absent id is a no-op.
func (s *WishlistStore) Remove(userID string, productID primitive.ObjectID) []primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.wishlists[userID]
	kept := ids[:0]
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	s.wishlists[userID] = kept
	return copyIDs(kept)
}

// Clear empties the user's wishlist.
func (s *WishlistStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wishlists, userID)
}

func copyIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}
