package order

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"pedidosapi/pkg/catalog"
)

// Order represents a customer's selection of catalog items.
type Order struct {
	ID           int64             `json:"id"`
	CustomerName string            `json:"customerName"`
	Items        []catalog.Product `json:"items"`
	Total        decimal.Decimal   `json:"total"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    *time.Time        `json:"updatedAt,omitempty"`
}

// Clone returns a copy that shares no mutable state with o.
func (o Order) Clone() Order {
	c := o
	c.Items = make([]catalog.Product, len(o.Items))
	copy(c.Items, o.Items)
	if o.UpdatedAt != nil {
		t := *o.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}

// Repository defines behavior for storing orders. Implementations own the
// collection exclusively and hand out copies.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	Create(ctx context.Context, customerName string, items []catalog.Product) (Order, error)
	Update(ctx context.Context, id int64, customerName string, items []catalog.Product) (Order, error)
	Delete(ctx context.Context, id int64) (Order, error)
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")
