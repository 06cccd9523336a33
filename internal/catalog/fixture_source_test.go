package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureSourceLoadsAndValidates(t *testing.T) {
	s, err := NewFixtureSource()
	require.NoError(t, err)

	ctx := context.Background()

	ps, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ps)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	known := map[string]bool{}
	for _, c := range cats {
		known[c.Name] = true
	}
	for _, p := range ps {
		assert.Greater(t, p.ID, int64(0))
		assert.NotEmpty(t, p.Name)
		assert.False(t, p.Price.IsNegative())
		assert.True(t, known[p.Category], "product %d has unknown category %q", p.ID, p.Category)
		assert.GreaterOrEqual(t, p.Rating, 0.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
	}

	sizes, err := s.ListSizes(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sizes)

	ts, err := s.ListTestimonials(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, ts)

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, stats.Awards.Count)
}

func TestFixtureSourceGetProduct(t *testing.T) {
	s, err := NewFixtureSource()
	require.NoError(t, err)

	ctx := context.Background()

	p, err := s.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Elite Pro Runner", p.Name)

	_, err = s.GetProduct(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateProductRejectsBadEntries(t *testing.T) {
	cats := map[string]bool{"Running": true}
	good := Product{ID: 1, Name: "X", Image: "i", Category: "Running", Rating: 4.5}

	require.NoError(t, validateProduct(good, cats))

	bad := good
	bad.ID = 0
	assert.Error(t, validateProduct(bad, cats))

	bad = good
	bad.Name = ""
	assert.Error(t, validateProduct(bad, cats))

	bad = good
	bad.Category = "Skating"
	assert.Error(t, validateProduct(bad, cats))

	bad = good
	bad.Rating = 5.1
	assert.Error(t, validateProduct(bad, cats))
}
