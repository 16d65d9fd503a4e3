// Package catalog manages the persisted product catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/quickbill/quickbill/internal/models"
	"github.com/quickbill/quickbill/internal/storage"
)

// StorageKey is the key the catalog persists under.
const StorageKey = "billing-products"

// Catalog owns the list of sellable products. Every mutation persists the
// full snapshot to the store in the same call, so memory and storage never
// diverge. Validation failures and unknown ids are silent no-ops: the
// operation returns nil, nil and leaves the catalog unchanged.
//
// Catalog is not safe for concurrent use; callers serialize access, matching
// the single-user model.
type Catalog struct {
	store    storage.Store
	products []models.Product
}

// New creates a Catalog backed by the given store. Call Load before use.
func New(store storage.Store) *Catalog {
	return &Catalog{store: store}
}

// Load hydrates the catalog from the store. An absent key means an empty
// catalog. Safe to call again after a change notification.
func (c *Catalog) Load(ctx context.Context) error {
	data, err := c.store.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if data == nil {
		c.products = nil
		return nil
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to decode catalog: %w", err)
	}
	c.products = products
	return nil
}

// List returns the current products in insertion order.
func (c *Catalog) List() []models.Product {
	return slices.Clone(c.products)
}

// Add validates and appends a new product, assigning a fresh id.
// Returns nil, nil without touching the catalog if the trimmed name is empty
// or rawPrice does not parse to a finite number > 0.
func (c *Catalog) Add(ctx context.Context, name, rawPrice string) (*models.Product, error) {
	name = strings.TrimSpace(name)
	price, ok := parsePrice(rawPrice)
	if name == "" || !ok {
		slog.Debug("Product add rejected", "name", name, "raw_price", rawPrice)
		return nil, nil
	}

	product := models.Product{
		ID:    uuid.New().String(),
		Name:  name,
		Price: price,
	}

	next := append(slices.Clone(c.products), product)
	if err := c.persist(ctx, next); err != nil {
		return nil, err
	}
	c.products = next

	slog.Info("Product added", "product_id", product.ID, "name", product.Name, "price", product.Price)
	return &product, nil
}

// Update replaces the name and price of an existing product in place.
// The id is immutable. Returns nil, nil if the id is unknown or validation
// fails, leaving the catalog unchanged.
func (c *Catalog) Update(ctx context.Context, id, name, rawPrice string) (*models.Product, error) {
	i := slices.IndexFunc(c.products, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		slog.Debug("Product update rejected: not found", "product_id", id)
		return nil, nil
	}

	name = strings.TrimSpace(name)
	price, ok := parsePrice(rawPrice)
	if name == "" || !ok {
		slog.Debug("Product update rejected", "product_id", id, "name", name, "raw_price", rawPrice)
		return nil, nil
	}

	next := slices.Clone(c.products)
	next[i].Name = name
	next[i].Price = price

	if err := c.persist(ctx, next); err != nil {
		return nil, err
	}
	c.products = next

	updated := next[i]
	slog.Info("Product updated", "product_id", updated.ID, "name", updated.Name, "price", updated.Price)
	return &updated, nil
}

// Remove deletes the product with the given id. Removing an unknown id is a
// no-op.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	next := slices.DeleteFunc(slices.Clone(c.products), func(p models.Product) bool { return p.ID == id })
	if len(next) == len(c.products) {
		return nil
	}

	if err := c.persist(ctx, next); err != nil {
		return err
	}
	c.products = next

	slog.Info("Product removed", "product_id", id)
	return nil
}

// Clear empties the catalog and removes its persisted key entirely.
func (c *Catalog) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	c.products = nil

	slog.Info("Catalog cleared")
	return nil
}

// Watch subscribes to change notifications for the catalog key. Observers
// reload the catalog on receipt; nothing is pushed incrementally.
func (c *Catalog) Watch() (<-chan string, func()) {
	return c.store.Watch(StorageKey)
}

func (c *Catalog) persist(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := c.store.Put(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	return nil
}

// parsePrice parses a raw price input. A usable price is a finite number
// strictly greater than zero.
func parsePrice(raw string) (float64, bool) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, false
	}
	return price, true
}
