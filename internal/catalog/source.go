package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Source is the read-only storefront data source. All methods take a context
// so a remote implementation can replace the fixture one without an
// interface change.
type Source interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListSizes(ctx context.Context) ([]string, error)
	ListTestimonials(ctx context.Context) ([]Testimonial, error)
	GetStats(ctx context.Context) (Stats, error)
}
