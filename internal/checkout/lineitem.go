package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/velocityathletics/velocity/internal/cart"
)

// Currency for every line item sent to the payment provider.
const Currency = "usd"

// LineItem is the provider wire shape for one priced, quantity-bearing item.
// Shipping and tax ride along as synthetic line items of quantity 1.
type LineItem struct {
	PriceData PriceData `json:"price_data"`
	Quantity  int       `json:"quantity"`
}

type PriceData struct {
	Currency    string      `json:"currency"`
	ProductData ProductData `json:"product_data"`
	UnitAmount  int64       `json:"unit_amount"` // minor currency units (cents)
}

type ProductData struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// MinorUnits converts a decimal amount to integer cents. Rounding is
// half-away-from-zero and applied per amount, never to an aggregate, so a
// multi-quantity line cannot accumulate rounding bias.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// BuildLineItems assembles the provider line items from the cart's contents
// and its computed totals: one item per cart line, then a "Shipping" item
// when shipping is positive, then a "Tax" item when tax is positive.
func BuildLineItems(lines []cart.Line, totals cart.Totals) []LineItem {
	items := make([]LineItem, 0, len(lines)+2)
	for _, ln := range lines {
		items = append(items, LineItem{
			PriceData: PriceData{
				Currency: Currency,
				ProductData: ProductData{
					Name:        ln.Name,
					Description: fmt.Sprintf("%s - Size: %s", ln.Category, ln.Size),
					Images:      []string{ln.Image},
				},
				UnitAmount: MinorUnits(ln.UnitPrice),
			},
			Quantity: ln.Quantity,
		})
	}
	if totals.Shipping.IsPositive() {
		items = append(items, LineItem{
			PriceData: PriceData{
				Currency:    Currency,
				ProductData: ProductData{Name: "Shipping", Description: "Standard shipping"},
				UnitAmount:  MinorUnits(totals.Shipping),
			},
			Quantity: 1,
		})
	}
	if totals.Tax.IsPositive() {
		items = append(items, LineItem{
			PriceData: PriceData{
				Currency:    Currency,
				ProductData: ProductData{Name: "Tax", Description: "Sales tax (8%)"},
				UnitAmount:  MinorUnits(totals.Tax),
			},
			Quantity: 1,
		})
	}
	return items
}
