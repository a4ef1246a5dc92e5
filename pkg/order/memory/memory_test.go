package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pedidosapi/pkg/catalog"
	"pedidosapi/pkg/order"
)

func products(t *testing.T, ids ...int64) []catalog.Product {
	t.Helper()
	c := catalog.Default()
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		p, err := c.Get(id)
		if err != nil {
			t.Fatalf("catalog get %d: %v", id, err)
		}
		out = append(out, p)
	}
	return out
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := created
	repo := New(WithClock(func() time.Time { return clock }))

	o, err := repo.Create(ctx, "Ana", products(t, 1, 3))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID != 1 {
		t.Fatalf("expected id 1, got %d", o.ID)
	}
	if !o.Total.Equal(decimal.RequireFromString("13.30")) {
		t.Fatalf("expected total 13.30, got %s", o.Total)
	}
	if o.UpdatedAt != nil {
		t.Fatal("updatedAt must be unset on create")
	}

	got, err := repo.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CustomerName != "Ana" || len(got.Items) != 2 {
		t.Fatalf("unexpected order: %+v", got)
	}

	clock = created.Add(time.Minute)
	upd, err := repo.Update(ctx, o.ID, "Luis", products(t, 5))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.CustomerName != "Luis" || len(upd.Items) != 1 || upd.Items[0].ID != 5 {
		t.Fatalf("unexpected update result: %+v", upd)
	}
	if !upd.Total.Equal(decimal.RequireFromString("6")) {
		t.Fatalf("expected total 6.00, got %s", upd.Total)
	}
	if !upd.CreatedAt.Equal(created) {
		t.Fatalf("createdAt changed: %v", upd.CreatedAt)
	}
	if upd.UpdatedAt == nil || !upd.UpdatedAt.Equal(clock) {
		t.Fatalf("unexpected updatedAt: %v", upd.UpdatedAt)
	}

	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}

	removed, err := repo.Delete(ctx, o.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != o.ID || removed.CustomerName != "Luis" {
		t.Fatalf("unexpected removed order: %+v", removed)
	}
	if _, err := repo.Get(ctx, o.ID); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestIDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	repo := New()

	first, _ := repo.Create(ctx, "a", products(t, 1))
	second, _ := repo.Create(ctx, "b", products(t, 2))
	if _, err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := repo.Get(ctx, second.ID)
	if err != nil || got.CustomerName != "b" {
		t.Fatalf("second order lost after delete: %v %+v", err, got)
	}

	third, _ := repo.Create(ctx, "c", products(t, 3))
	if third.ID == first.ID || third.ID == second.ID {
		t.Fatalf("id %d reused", third.ID)
	}
	if third.ID <= second.ID {
		t.Fatalf("expected id greater than %d, got %d", second.ID, third.ID)
	}
}

func TestListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := New()

	empty, err := repo.List(ctx)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", empty, err)
	}

	for _, name := range []string{"a", "b", "c", "d"} {
		if _, err := repo.Create(ctx, name, products(t, 1)); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if _, err := repo.Delete(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}

	list, _ := repo.List(ctx)
	var got string
	for _, o := range list {
		got += o.CustomerName
	}
	if got != "acd" {
		t.Fatalf("unexpected order: %q", got)
	}
}

func TestMissingOrderLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := New()
	o, _ := repo.Create(ctx, "a", products(t, 1))

	if _, err := repo.Delete(ctx, 99); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Update(ctx, 99, "x", products(t, 2)); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, _ := repo.List(ctx)
	if len(list) != 1 || list[0].ID != o.ID || list[0].CustomerName != "a" {
		t.Fatalf("store changed: %+v", list)
	}
}

func TestReturnedOrdersAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := New()
	o, _ := repo.Create(ctx, "a", products(t, 1, 2))

	o.Items[0].Name = "mutated"
	got, _ := repo.Get(ctx, o.ID)
	if got.Items[0].Name != "Empanada de Carne" {
		t.Fatalf("store shares items with caller: %+v", got.Items)
	}
}
