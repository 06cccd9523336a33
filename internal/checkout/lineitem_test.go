package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocityathletics/velocity/internal/cart"
	"github.com/velocityathletics/velocity/internal/catalog"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(4999), MinorUnits(decimal.RequireFromString("49.99")))
	assert.Equal(t, int64(1500), MinorUnits(decimal.NewFromInt(15)))
	assert.Equal(t, int64(800), MinorUnits(decimal.RequireFromString("7.9984")))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
}

func TestBuildLineItemsRoundsPerLine(t *testing.T) {
	// One line at 49.99 x2: subtotal 99.98, shipping 15, tax 7.9984.
	l := cart.New("US 9")
	p := catalog.Product{
		ID:       1,
		Name:     "Elite Pro Runner",
		Price:    decimal.RequireFromString("49.99"),
		Image:    "https://img.example/runner.jpg",
		Category: "Running",
	}
	require.NoError(t, l.Add(p, "US 9", 2))

	items := BuildLineItems(l.Lines(), l.Totals())
	require.Len(t, items, 3)

	product := items[0]
	assert.Equal(t, int64(4999), product.PriceData.UnitAmount)
	assert.Equal(t, 2, product.Quantity)
	assert.Equal(t, "usd", product.PriceData.Currency)
	assert.Equal(t, "Elite Pro Runner", product.PriceData.ProductData.Name)
	assert.Equal(t, "Running - Size: US 9", product.PriceData.ProductData.Description)
	assert.Equal(t, []string{"https://img.example/runner.jpg"}, product.PriceData.ProductData.Images)

	shipping := items[1]
	assert.Equal(t, "Shipping", shipping.PriceData.ProductData.Name)
	assert.Equal(t, int64(1500), shipping.PriceData.UnitAmount)
	assert.Equal(t, 1, shipping.Quantity)

	tax := items[2]
	assert.Equal(t, "Tax", tax.PriceData.ProductData.Name)
	assert.Equal(t, int64(800), tax.PriceData.UnitAmount) // round(799.84)
	assert.Equal(t, 1, tax.Quantity)
}

func TestBuildLineItemsEmptyCart(t *testing.T) {
	l := cart.New("US 9")
	items := BuildLineItems(l.Lines(), l.Totals())
	assert.Empty(t, items) // no synthetic shipping/tax when both are zero
}

func TestBuildLineItemsOnePerCartLine(t *testing.T) {
	l := cart.New("US 8", "US 9")
	p1 := catalog.Product{ID: 1, Name: "A", Price: decimal.NewFromInt(189), Image: "i", Category: "Running"}
	p2 := catalog.Product{ID: 2, Name: "B", Price: decimal.NewFromInt(159), Image: "i", Category: "Training"}
	require.NoError(t, l.Add(p1, "US 8", 1))
	require.NoError(t, l.Add(p1, "US 9", 1))
	require.NoError(t, l.Add(p2, "US 9", 3))

	items := BuildLineItems(l.Lines(), l.Totals())
	require.Len(t, items, 5) // 3 cart lines + shipping + tax
	assert.Equal(t, 3, items[2].Quantity)
}
