// Package state holds the per-workspace aggregate shared by the workflows.
//
// Field groups have a single writer each: the user is written by the
// session manager, services by the catalog, orders by the order workflow
// (and cleared by the session manager on logout). Lists are only ever
// swapped wholesale; there are no incremental patches.
package state

import (
	"slices"
	"sync"

	"github.com/iliyamo/utility-ordering-client/internal/model"
)

// AppState is the aggregate root of one client workspace.
type AppState struct {
	mu       sync.RWMutex
	user     *model.User
	services []model.Service
	orders   []model.Order
}

// New returns an unauthenticated, empty state.
func New() *AppState {
	return &AppState{}
}

// Snapshot is a consistent copy of the whole aggregate.
type Snapshot struct {
	User     *model.User
	Services []model.Service
	Orders   []model.Order
}

func (s *AppState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Services: slices.Clone(s.services),
		Orders:   slices.Clone(s.orders),
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// User returns the signed-in user, if any.
func (s *AppState) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *AppState) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// SetUser records the authenticated identity.
func (s *AppState) SetUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

// ClearSession drops the user together with every cached list, so nothing
// from the previous session survives into the next one.
func (s *AppState) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.services = nil
	s.orders = nil
}

func (s *AppState) Services() []model.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.services)
}

// ReplaceServices swaps the whole catalog.
func (s *AppState) ReplaceServices(services []model.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = slices.Clone(services)
}

func (s *AppState) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.orders)
}

// ReplaceOrders swaps the whole order history.
func (s *AppState) ReplaceOrders(orders []model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = slices.Clone(orders)
}
