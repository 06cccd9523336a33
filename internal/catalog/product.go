package catalog

import "github.com/shopspring/decimal"

// Product is one catalog entry. The catalog is read-only fixture data and
// immutable for the lifetime of the process.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Testimonial struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Image  string  `json:"image"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

type Stat struct {
	Count string `json:"count"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type Stats struct {
	Awards     Stat `json:"awards"`
	Athletes   Stat `json:"athletes"`
	Experience Stat `json:"experience"`
}

// CategoryAll is the sentinel meaning "no category constraint".
const CategoryAll = "All"
