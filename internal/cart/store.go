package cart

import (
	"context"
	"errors"
	"sync"
)

var ErrCartNotFound = errors.New("cart not found")

// Store keeps ledgers by cart id. The in-memory implementation below is the
// baseline; internal/redisx provides the persistent one.
type Store interface {
	Get(ctx context.Context, id string) (*Ledger, error)
	Put(ctx context.Context, id string, l *Ledger) error
	Delete(ctx context.Context, id string) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Ledger
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[string]*Ledger{}}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.carts[id]
	if !ok {
		return nil, ErrCartNotFound
	}
	return l, nil
}

func (s *MemoryStore) Put(ctx context.Context, id string, l *Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[id] = l
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}
