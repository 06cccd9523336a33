package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// FixtureSource serves the embedded storefront data. Everything is loaded
// and validated once in NewFixtureSource; reads after that cannot fail.
type FixtureSource struct {
	products     []Product
	categories   []Category
	sizes        []string
	testimonials []Testimonial
	stats        Stats
	byID         map[int64]Product
}

func NewFixtureSource() (*FixtureSource, error) {
	s := &FixtureSource{byID: map[int64]Product{}}

	if err := loadJSON("fixtures/products.json", &s.products); err != nil {
		return nil, err
	}
	if err := loadJSON("fixtures/categories.json", &s.categories); err != nil {
		return nil, err
	}
	if err := loadJSON("fixtures/sizes.json", &s.sizes); err != nil {
		return nil, err
	}
	if err := loadJSON("fixtures/testimonials.json", &s.testimonials); err != nil {
		return nil, err
	}
	if err := loadJSON("fixtures/stats.json", &s.stats); err != nil {
		return nil, err
	}

	known := map[string]bool{}
	for _, c := range s.categories {
		if c.ID == "" || c.Name == "" || c.Slug == "" {
			return nil, fmt.Errorf("catalog: category %q missing required fields", c.ID)
		}
		known[c.Name] = true
	}
	if len(s.sizes) == 0 {
		return nil, fmt.Errorf("catalog: size set is empty")
	}

	for _, p := range s.products {
		if err := validateProduct(p, known); err != nil {
			return nil, err
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %d", p.ID)
		}
		s.byID[p.ID] = p
	}
	return s, nil
}

func loadJSON(name string, out any) error {
	b, err := fixtureFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", name, err)
	}
	return nil
}

func validateProduct(p Product, categories map[string]bool) error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("catalog: product %q: invalid id %d", p.Name, p.ID)
	case p.Name == "":
		return fmt.Errorf("catalog: product %d: missing name", p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("catalog: product %d: negative price %s", p.ID, p.Price)
	case p.Image == "":
		return fmt.Errorf("catalog: product %d: missing image", p.ID)
	case !categories[p.Category]:
		return fmt.Errorf("catalog: product %d: unknown category %q", p.ID, p.Category)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("catalog: product %d: rating %v out of range", p.ID, p.Rating)
	case p.Reviews < 0:
		return fmt.Errorf("catalog: product %d: negative review count", p.ID)
	}
	return nil
}

func (s *FixtureSource) ListProducts(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *FixtureSource) GetProduct(ctx context.Context, id int64) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	p, ok := s.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return p, nil
}

func (s *FixtureSource) ListCategories(ctx context.Context) ([]Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *FixtureSource) ListSizes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]string, len(s.sizes))
	copy(out, s.sizes)
	return out, nil
}

func (s *FixtureSource) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Testimonial, len(s.testimonials))
	copy(out, s.testimonials)
	return out, nil
}

func (s *FixtureSource) GetStats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	return s.stats, nil
}
