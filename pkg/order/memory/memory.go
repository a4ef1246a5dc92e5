// Package memory implements an in-memory order repository.
//
// State lives in the process: replicas do not share orders.
package memory

import (
	"context"
	"sync"
	"time"

	"pedidosapi/pkg/catalog"
	"pedidosapi/pkg/order"
	"pedidosapi/pkg/pricing"
)

// Repository provides an in-memory implementation of order.Repository.
type Repository struct {
	mu     sync.RWMutex
	orders []order.Order
	lastID int64
	now    func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// New creates a new in-memory repository.
func New(opts ...Option) *Repository {
	r := &Repository{orders: []order.Order{}, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns all orders in insertion order.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	return out, nil
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id int64) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return order.Order{}, order.ErrNotFound
	}
	return r.orders[i].Clone(), nil
}

// Create stores a new order under the next id. Ids are never reused, even
// after deletes.
func (r *Repository) Create(ctx context.Context, customerName string, items []catalog.Product) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	o := order.Order{
		ID:           r.lastID,
		CustomerName: customerName,
		Items:        copyItems(items),
		Total:        pricing.Total(items),
		CreatedAt:    r.now(),
	}
	r.orders = append(r.orders, o)
	return o.Clone(), nil
}

// Update replaces the customer name and items of an existing order.
func (r *Repository) Update(ctx context.Context, id int64, customerName string, items []catalog.Product) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return order.Order{}, order.ErrNotFound
	}
	now := r.now()
	o := &r.orders[i]
	o.CustomerName = customerName
	o.Items = copyItems(items)
	o.Total = pricing.Total(items)
	o.UpdatedAt = &now
	return o.Clone(), nil
}

// Delete removes an order by ID and returns it.
func (r *Repository) Delete(ctx context.Context, id int64) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return order.Order{}, order.ErrNotFound
	}
	removed := r.orders[i]
	r.orders = append(r.orders[:i:i], r.orders[i+1:]...)
	return removed, nil
}

func (r *Repository) indexOf(id int64) int {
	for i, o := range r.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func copyItems(items []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, len(items))
	copy(out, items)
	return out
}

var _ order.Repository = (*Repository)(nil)
