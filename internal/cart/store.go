package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionKey scopes one cart to one cashier inside one tenant.
type sessionKey struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
}

// Store holds the live carts for the process. Carts are volatile; a
// restart drops every open session.
type Store struct {
	mu    sync.RWMutex
	carts map[sessionKey]*Cart
}

// NewStore builds an empty cart store.
func NewStore() *Store {
	return &Store{carts: make(map[sessionKey]*Cart)}
}

// Get returns the cart for the session, creating it on first use.
func (s *Store) Get(companyID, userID uuid.UUID) *Cart {
	key := sessionKey{CompanyID: companyID, UserID: userID}

	s.mu.RLock()
	existing, ok := s.carts[key]
	s.mu.RUnlock()
	if ok {
		return existing
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.carts[key]; ok {
		return existing
	}
	created := New()
	s.carts[key] = created
	return created
}

// Drop removes the session's cart entirely.
func (s *Store) Drop(companyID, userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionKey{CompanyID: companyID, UserID: userID})
}

// Sweep removes carts idle for longer than maxIdle and reports how many
// were dropped. Runs from a background ticker in the API process.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for key, c := range s.carts {
		c.mu.Lock()
		idle := c.updatedAt.Before(cutoff)
		c.mu.Unlock()
		if idle {
			delete(s.carts, key)
			dropped++
		}
	}
	return dropped
}
