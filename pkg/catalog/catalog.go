// Package catalog holds the fixed set of purchasable products.
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is an immutable catalog entry.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ErrNotFound indicates the requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Catalog is a read-only product list populated once at startup.
type Catalog struct {
	products []Product
	byID     map[int64]int
}

// New builds a catalog from the given products. Later duplicates of an id
// are ignored.
func New(products ...Product) *Catalog {
	c := &Catalog{byID: make(map[int64]int, len(products))}
	for _, p := range products {
		if _, ok := c.byID[p.ID]; ok {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Default returns the catalog the service is seeded with.
func Default() *Catalog {
	return New(
		Product{ID: 1, Name: "Empanada de Carne", Price: decimal.RequireFromString("3.50")},
		Product{ID: 2, Name: "Arepa de Huevo", Price: decimal.RequireFromString("4.25")},
		Product{ID: 3, Name: "Salchipapa Clásica", Price: decimal.RequireFromString("9.80")},
		Product{ID: 4, Name: "Choriperro Especial", Price: decimal.RequireFromString("12.50")},
		Product{ID: 5, Name: "Aborrajado", Price: decimal.RequireFromString("6.00")},
	)
}

// List returns every product in seed order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks up a product by id.
func (c *Catalog) Get(id int64) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return c.products[i], nil
}
