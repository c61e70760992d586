package catalog

import (
	"github.com/shopspring/decimal"
)

// Category groups catalog products. Specs vary per category and are kept as an
// open name/value mapping.
type Category string

const (
	CategoryPhone       Category = "Phone"
	CategoryTablet      Category = "Tablet"
	CategoryAccessories Category = "Accessories"
)

// Product is a catalog entry. Price is GST-inclusive.
type Product struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name" validate:"required,max=200"`
	Price    decimal.Decimal   `json:"price" validate:"gt=0"`
	Stock    int               `json:"stock" validate:"gte=0"`
	Note     string            `json:"note,omitempty" validate:"max=500"`
	Brand    string            `json:"brand,omitempty" validate:"max=100"`
	Category Category          `json:"category,omitempty"`
	Specs    map[string]string `json:"specs,omitempty"`

	// Version backs optimistic concurrency and is not part of the document.
	Version int64 `json:"-"`
}
