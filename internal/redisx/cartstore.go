package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/velocityathletics/velocity/internal/cart"
)

// CartStore persists cart ledgers as JSON line arrays keyed by cart id, with
// a session TTL. Sizes is the known size set used to rebuild ledgers so that
// restored carts keep validating adds.
type CartStore struct {
	RDB   *redis.Client
	Sizes []string
}

func NewCartStore(rdb *redis.Client, sizes []string) *CartStore {
	return &CartStore{RDB: rdb, Sizes: sizes}
}

func (s *CartStore) Get(ctx context.Context, id string) (*cart.Ledger, error) {
	b, err := s.RDB.Get(ctx, fmt.Sprintf(KeyCart, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cart store get %s: %w", id, err)
	}
	var lines []cart.Line
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, fmt.Errorf("cart store decode %s: %w", id, err)
	}
	return cart.Restore(lines, s.Sizes...), nil
}

func (s *CartStore) Put(ctx context.Context, id string, l *cart.Ledger) error {
	b, err := json.Marshal(l.Lines())
	if err != nil {
		return fmt.Errorf("cart store encode %s: %w", id, err)
	}
	if err := s.RDB.Set(ctx, fmt.Sprintf(KeyCart, id), b, TTLCart).Err(); err != nil {
		return fmt.Errorf("cart store put %s: %w", id, err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, id string) error {
	if err := s.RDB.Del(ctx, fmt.Sprintf(KeyCart, id)).Err(); err != nil {
		return fmt.Errorf("cart store delete %s: %w", id, err)
	}
	return nil
}
