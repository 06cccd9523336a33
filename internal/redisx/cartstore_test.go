package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocityathletics/velocity/internal/cart"
	"github.com/velocityathletics/velocity/internal/catalog"
)

func setupTestStore(t *testing.T) (*CartStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCartStore(client, []string{"US 9", "US 10"}), mr
}

func TestCartStoreRoundTrip(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	l := cart.New("US 9", "US 10")
	p := catalog.Product{ID: 1, Name: "Elite Pro Runner", Price: decimal.NewFromInt(189), Image: "img", Category: "Running"}
	require.NoError(t, l.Add(p, "US 9", 2))

	require.NoError(t, s.Put(ctx, "c1", l))

	got, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, l.Lines(), got.Lines())
	assert.Equal(t, 2, got.ItemCount())

	// A restored ledger still rejects sizes outside the known set.
	assert.ErrorIs(t, got.Add(p, "EU 44", 1), cart.ErrInvalidSize)
}

func TestCartStoreMissing(t *testing.T) {
	s, _ := setupTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestCartStoreDelete(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "c1", cart.New("US 9")))
	require.NoError(t, s.Delete(ctx, "c1"))
	_, err := s.Get(ctx, "c1")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestCartStoreAppliesTTL(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "c1", cart.New("US 9")))
	assert.Greater(t, mr.TTL("cart:c1"), time.Duration(0))

	mr.FastForward(TTLCart * 2)
	_, err := s.Get(ctx, "c1")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}
