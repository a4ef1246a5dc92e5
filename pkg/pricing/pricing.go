// Package pricing maps requested product ids onto catalog entries and
// computes order totals.
package pricing

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pedidosapi/pkg/catalog"
)

// Places is the number of decimal places totals are rounded to.
const Places = 2

// maxExponent bounds the decimal exponent NormalizeID will rescale. Any
// int64 fits in 19 digits, so larger exponents can never name a product.
const maxExponent = 18

var (
	minID = decimal.NewFromInt(math.MinInt64)
	maxID = decimal.NewFromInt(math.MaxInt64)
)

// NormalizeID coerces a raw JSON id into an integer. Numbers and numeric
// strings are accepted as long as they denote an integer value; anything
// else reports false and is treated as "no match" by every caller.
func NormalizeID(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
	} else if !json.Valid(raw) {
		return 0, false
	}
	text = strings.TrimSpace(text)
	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		return id, true
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, false
	}
	// Rescaling cost grows with the exponent, so check it before comparing.
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return 0, false
	}
	if !d.IsInteger() {
		return 0, false
	}
	if d.LessThan(minID) || d.GreaterThan(maxID) {
		return 0, false
	}
	return d.IntPart(), true
}

// Total sums item prices and rounds to Places.
func Total(items []catalog.Product) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range items {
		sum = sum.Add(p.Price)
	}
	return sum.Round(Places)
}

// Resolver resolves product ids against a catalog. It has no side effects.
type Resolver struct {
	catalog *catalog.Catalog
}

// NewResolver returns a Resolver backed by c.
func NewResolver(c *catalog.Catalog) *Resolver {
	return &Resolver{catalog: c}
}

func (r *Resolver) lookup(raw json.RawMessage) (catalog.Product, bool) {
	id, ok := NormalizeID(raw)
	if !ok {
		return catalog.Product{}, false
	}
	p, err := r.catalog.Get(id)
	if err != nil {
		return catalog.Product{}, false
	}
	return p, true
}

// ResolveItems returns the products for ids in input order, dropping ids
// that do not match a product. Duplicates are kept.
func (r *Resolver) ResolveItems(ids []json.RawMessage) []catalog.Product {
	out := make([]catalog.Product, 0, len(ids))
	for _, raw := range ids {
		if p, ok := r.lookup(raw); ok {
			out = append(out, p)
		}
	}
	return out
}

// ComputeTotal sums the price of every id that resolves. Unmatched ids
// contribute nothing.
func (r *Resolver) ComputeTotal(ids []json.RawMessage) decimal.Decimal {
	return Total(r.ResolveItems(ids))
}

// AllIDsValid reports whether every id resolves to a product.
func (r *Resolver) AllIDsValid(ids []json.RawMessage) bool {
	for _, raw := range ids {
		if _, ok := r.lookup(raw); !ok {
			return false
		}
	}
	return true
}
