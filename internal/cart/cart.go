package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/velocityathletics/velocity/internal/catalog"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidSize     = errors.New("invalid size")
)

// Flat shipping fee for a non-empty cart, and the sales tax rate applied to
// the subtotal.
var (
	ShippingFee = decimal.NewFromInt(15)
	TaxRate     = decimal.NewFromFloat(0.08)
)

// Line is one purchasable selection. The unit price is copied from the
// product at add time. Lines are keyed by (product id, size).
type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image"`
	Size      string          `json:"size"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
}

// Totals are derived on every read, never cached. Amounts stay decimal;
// rounding happens only at display or checkout-assembly time.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Ledger holds the line items of one session's cart. One ledger exists per
// cart id; mutations are serialized by the ledger's own lock and every
// mutation notifies subscribers.
type Ledger struct {
	mu    sync.Mutex
	lines []Line
	sizes map[string]bool
	subs  []func()
}

// New returns an empty ledger. validSizes is the known size set used to
// reject malformed adds; an empty set accepts any non-empty size.
func New(validSizes ...string) *Ledger {
	l := &Ledger{sizes: map[string]bool{}}
	for _, s := range validSizes {
		l.sizes[s] = true
	}
	return l
}

// Restore rebuilds a ledger from previously persisted lines.
func Restore(lines []Line, validSizes ...string) *Ledger {
	l := New(validSizes...)
	l.lines = append(l.lines, lines...)
	return l
}

// Subscribe registers fn to run after every mutation.
func (l *Ledger) Subscribe(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, fn)
}

// Add puts quantity units of (product, size) into the cart. An existing
// (product id, size) line grows by quantity; the same product in a different
// size gets its own line.
func (l *Ledger) Add(p catalog.Product, size string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("add %q: %w", p.Name, ErrInvalidQuantity)
	}
	if size == "" || (len(l.sizes) > 0 && !l.sizes[size]) {
		return fmt.Errorf("add %q size %q: %w", p.Name, size, ErrInvalidSize)
	}

	l.mu.Lock()
	merged := false
	for i := range l.lines {
		if l.lines[i].ProductID == p.ID && l.lines[i].Size == size {
			l.lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		l.lines = append(l.lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Image:     p.Image,
			Size:      size,
			Category:  p.Category,
			Quantity:  quantity,
		})
	}
	l.mu.Unlock()

	l.notify()
	return nil
}

// Remove deletes every line for the product. Removing an absent product is a
// no-op, not an error.
func (l *Ledger) Remove(productID int64) {
	l.mu.Lock()
	l.lines = deleteLines(l.lines, func(ln Line) bool { return ln.ProductID == productID })
	l.mu.Unlock()
	l.notify()
}

// RemoveSize deletes the single (product, size) line.
func (l *Ledger) RemoveSize(productID int64, size string) {
	l.mu.Lock()
	l.lines = deleteLines(l.lines, func(ln Line) bool { return ln.ProductID == productID && ln.Size == size })
	l.mu.Unlock()
	l.notify()
}

// SetQuantity sets the quantity of every line of the product to exactly
// quantity. A quantity below 1 removes the line(s) instead of leaving a
// zero-quantity entry.
func (l *Ledger) SetQuantity(productID int64, quantity int) {
	if quantity < 1 {
		l.Remove(productID)
		return
	}
	l.mu.Lock()
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines[i].Quantity = quantity
		}
	}
	l.mu.Unlock()
	l.notify()
}

// Clear empties the ledger unconditionally. Called by the checkout flow only
// after the hosted payment page reports success.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.lines = nil
	l.mu.Unlock()
	l.notify()
}

// Lines returns a copy of the current line items.
func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// ItemCount is the sum of quantities over all lines.
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ln := range l.lines {
		n += ln.Quantity
	}
	return n
}

func (l *Ledger) IsEmpty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines) == 0
}

// Totals recomputes the order totals from the current lines on every call.
// shipping is a flat fee when the cart is non-empty, tax is a fixed rate on
// the subtotal.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()

	subtotal := decimal.Zero
	for _, ln := range l.lines {
		subtotal = subtotal.Add(ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	shipping := decimal.Zero
	if len(l.lines) > 0 {
		shipping = ShippingFee
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

func (l *Ledger) notify() {
	l.mu.Lock()
	subs := make([]func(), len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func deleteLines(lines []Line, match func(Line) bool) []Line {
	out := lines[:0]
	for _, ln := range lines {
		if !match(ln) {
			out = append(out, ln)
		}
	}
	return out
}
