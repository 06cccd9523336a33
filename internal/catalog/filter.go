package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort selects the ordering of a filtered product listing.
type Sort string

const (
	SortFeatured  Sort = "featured" // collection order, unchanged
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortRating    Sort = "rating"
	SortName      Sort = "name"
)

// Query is the filter/sort/pagination configuration for a product listing.
// Zero values mean "no constraint". All active filters are AND-combined.
type Query struct {
	Text     string // case-insensitive substring on name or description
	Category string // exact match; "" or "All" means unconstrained
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     Sort
	Page     int // 1-based
	PageSize int // <= 0 means no pagination
}

// Result is one page of a filtered listing plus the total post-filter count,
// which callers need to derive the page count.
type Result struct {
	Items []Product
	Total int
}

// Apply runs the query against the full product collection. It is pure: the
// input slice is never mutated and the call is freely repeatable.
func Apply(products []Product, q Query) Result {
	filtered := make([]Product, 0, len(products))
	text := strings.ToLower(strings.TrimSpace(q.Text))
	for _, p := range products {
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Name), text) &&
			!strings.Contains(strings.ToLower(p.Description), text) {
			continue
		}
		if q.Category != "" && q.Category != CategoryAll && p.Category != q.Category {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, q.Sort)

	total := len(filtered)
	if q.PageSize <= 0 {
		return Result{Items: filtered, Total: total}
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * q.PageSize
	if start >= total {
		return Result{Items: []Product{}, Total: total}
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return Result{Items: filtered[start:end], Total: total}
}

// Stable sorts throughout: ties keep collection order.
func sortProducts(ps []Product, s Sort) {
	switch s {
	case SortPriceAsc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price.LessThan(ps[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price.GreaterThan(ps[j].Price) })
	case SortRating:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Rating > ps[j].Rating })
	case SortName:
		c := collate.New(language.AmericanEnglish)
		sort.SliceStable(ps, func(i, j int) bool { return c.CompareString(ps[i].Name, ps[j].Name) < 0 })
	default: // SortFeatured
	}
}
