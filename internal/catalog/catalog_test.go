package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/quickbill/quickbill/internal/storage/sqlite"
)

func newTestCatalog(t *testing.T) (*Catalog, *sqlite.SQLiteStore) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	c := New(store)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c, store
}

func TestCatalogAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("valid product gets id, trimmed name and price", func(t *testing.T) {
		c, _ := newTestCatalog(t)

		p, err := c.Add(ctx, "  Tea  ", "20.00")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if p == nil {
			t.Fatal("Add rejected a valid product")
		}
		if p.ID == "" {
			t.Error("Expected a generated id")
		}
		if p.Name != "Tea" {
			t.Errorf("Name = %q, want %q", p.Name, "Tea")
		}
		if p.Price != 20.0 {
			t.Errorf("Price = %v, want 20.0", p.Price)
		}
	})

	t.Run("ids are unique across adds", func(t *testing.T) {
		c, _ := newTestCatalog(t)

		first, _ := c.Add(ctx, "Tea", "20")
		second, _ := c.Add(ctx, "Tea", "20")
		if first == nil || second == nil {
			t.Fatal("Add rejected a valid product")
		}
		if first.ID == second.ID {
			t.Errorf("Expected distinct ids, both are %q", first.ID)
		}
	})

	rejections := []struct {
		name     string
		prodName string
		rawPrice string
	}{
		{"empty name", "", "10"},
		{"whitespace name", "   ", "10"},
		{"zero price", "Tea", "0"},
		{"negative price", "Tea", "-5"},
		{"non-numeric price", "Tea", "abc"},
		{"empty price", "Tea", ""},
		{"NaN price", "Tea", "NaN"},
		{"infinite price", "Tea", "Inf"},
	}
	for _, tt := range rejections {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			c, _ := newTestCatalog(t)

			p, err := c.Add(ctx, tt.prodName, tt.rawPrice)
			if err != nil {
				t.Fatalf("Add failed: %v", err)
			}
			if p != nil {
				t.Errorf("Expected rejection, got product %+v", p)
			}
			if got := len(c.List()); got != 0 {
				t.Errorf("Catalog changed on rejection: %d products", got)
			}
		})
	}
}

func TestCatalogUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces name and price in place", func(t *testing.T) {
		c, _ := newTestCatalog(t)
		tea, _ := c.Add(ctx, "Tea", "20")
		coffee, _ := c.Add(ctx, "Coffee", "30")

		updated, err := c.Update(ctx, tea.ID, "Green Tea", "25")
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated == nil {
			t.Fatal("Update rejected a valid change")
		}
		if updated.ID != tea.ID {
			t.Errorf("ID changed on update: %q -> %q", tea.ID, updated.ID)
		}
		if updated.Name != "Green Tea" || updated.Price != 25.0 {
			t.Errorf("Updated product = %+v, want Green Tea at 25", updated)
		}

		// Insertion order preserved, other products untouched.
		products := c.List()
		if len(products) != 2 {
			t.Fatalf("Expected 2 products, got %d", len(products))
		}
		if products[0].Name != "Green Tea" || products[1].ID != coffee.ID {
			t.Errorf("Unexpected order after update: %+v", products)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		c, _ := newTestCatalog(t)
		c.Add(ctx, "Tea", "20")

		updated, err := c.Update(ctx, "nonexistent-id", "X", "10")
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated != nil {
			t.Errorf("Expected rejection for unknown id, got %+v", updated)
		}
	})

	t.Run("invalid price leaves product unchanged", func(t *testing.T) {
		c, _ := newTestCatalog(t)
		tea, _ := c.Add(ctx, "Tea", "20")

		updated, err := c.Update(ctx, tea.ID, "Tea", "-1")
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated != nil {
			t.Error("Expected rejection for non-positive price")
		}
		if got := c.List()[0].Price; got != 20.0 {
			t.Errorf("Price changed on rejection: %v", got)
		}
	})
}

func TestCatalogRemove(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)

	tea, _ := c.Add(ctx, "Tea", "20")
	coffee, _ := c.Add(ctx, "Coffee", "30")

	if err := c.Remove(ctx, tea.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	products := c.List()
	if len(products) != 1 || products[0].ID != coffee.ID {
		t.Errorf("Unexpected catalog after remove: %+v", products)
	}

	// Removing an absent id is idempotent.
	if err := c.Remove(ctx, tea.ID); err != nil {
		t.Fatalf("Second remove failed: %v", err)
	}
	if got := len(c.List()); got != 1 {
		t.Errorf("Expected 1 product after idempotent remove, got %d", got)
	}
}

func TestCatalogClear(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCatalog(t)

	c.Add(ctx, "Tea", "20")
	c.Add(ctx, "Coffee", "30")

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := len(c.List()); got != 0 {
		t.Errorf("Expected empty catalog, got %d products", got)
	}

	// Clear removes the persisted key entirely, not just the contents.
	value, err := store.Get(ctx, StorageKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != nil {
		t.Errorf("Expected key removed after Clear, got %q", value)
	}
}

func TestCatalogPersistence(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCatalog(t)

	tea, _ := c.Add(ctx, "Tea", "20")

	// A fresh catalog on the same store sees the snapshot.
	other := New(store)
	if err := other.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	products := other.List()
	if len(products) != 1 {
		t.Fatalf("Expected 1 product after reload, got %d", len(products))
	}
	if products[0].ID != tea.ID || products[0].Name != "Tea" || products[0].Price != 20.0 {
		t.Errorf("Reloaded product = %+v, want %+v", products[0], *tea)
	}
}

func TestCatalogWatch(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCatalog(t)

	// A second session over the same store observes catalog changes and
	// reloads, the way another open tab would.
	observer := New(store)
	if err := observer.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ch, cancel := observer.Watch()
	defer cancel()

	if _, err := c.Add(ctx, "Tea", "20"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	select {
	case key := <-ch:
		if key != StorageKey {
			t.Errorf("Notification key = %q, want %q", key, StorageKey)
		}
	default:
		t.Fatal("Expected a change notification after Add")
	}

	if err := observer.Load(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if got := len(observer.List()); got != 1 {
		t.Errorf("Observer sees %d products after reload, want 1", got)
	}
}
