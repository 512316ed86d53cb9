package memory

import (
	"context"
	"sync"

	"github.com/nexustrade/orderflow/pkg/domain"
)

// Store implements ports.OrderStore in memory.
// Safe for concurrent use; lifetime is the process lifetime.
type Store struct {
	data map[string]*domain.OrderRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory order store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.OrderRecord),
	}
}

// Put creates or fully replaces the record under id.
func (s *Store) Put(ctx context.Context, id string, rec *domain.OrderRecord) error {
	// Copy on write so the caller can't mutate store state by pointer.
	cp := rec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = cp
	return nil
}

// Merge overlays the patch onto the stored record inside a single
// critical section, creating the record if absent.
func (s *Store) Merge(ctx context.Context, id string, patch domain.OrderPatch) (*domain.OrderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[id]
	if !ok {
		rec = &domain.OrderRecord{OrderID: id}
	}
	merged := rec.Clone()
	patch.Apply(merged)
	s.data[id] = merged

	return merged.Clone(), nil
}

// Get retrieves the record from memory.
func (s *Store) Get(ctx context.Context, id string) (*domain.OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return rec.Clone(), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the IDs of all stored orders.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
