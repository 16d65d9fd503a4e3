// Package bill manages the current in-progress bill.
package bill

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

// StorageKey is the key the bill session persists under.
const StorageKey = "billing-items"

// Session owns the ordered line items of the current bill. It reads the
// product catalog only as a caller-supplied snapshot: a line item copies the
// product's name and price at add time and is never re-resolved, so later
// catalog edits or deletions leave existing lines untouched.
//
// Like the catalog, every mutation persists the full item sequence in the
// same call, rejections are silent nil, nil no-ops, and access is not
// synchronized.
type Session struct {
	store storage.Store
	items []models.BillItem
}

// New creates a Session backed by the given store. Call Load before use.
func New(store storage.Store) *Session {
	return &Session{store: store}
}

// Load hydrates the session from the store. An absent key means an empty
// bill.
func (s *Session) Load(ctx context.Context) error {
	data, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("failed to load bill items: %w", err)
	}
	if data == nil {
		s.items = nil
		return nil
	}

	var items []models.BillItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to decode bill items: %w", err)
	}
	s.items = items
	return nil
}

// Items returns the current line items in insertion order.
func (s *Session) Items() []models.BillItem {
	return slices.Clone(s.items)
}

// AddItem resolves productID against the supplied catalog snapshot and
// appends a new line with a copy of the product's name and price and a
// computed total. Returns nil, nil if the product is not in the snapshot or
// rawQuantity is absent or does not parse to a finite number.
//
// The parsed quantity is deliberately not range-checked: zero and negative
// quantities are accepted, unlike product prices.
func (s *Session) AddItem(ctx context.Context, products []models.Product, productID, rawQuantity string) (*models.BillItem, error) {
	i := slices.IndexFunc(products, func(p models.Product) bool { return p.ID == productID })
	if i < 0 {
		slog.Debug("Bill item rejected: product not found", "product_id", productID)
		return nil, nil
	}
	product := products[i]

	quantity, ok := parseNumber(rawQuantity)
	if !ok {
		slog.Debug("Bill item rejected: bad quantity", "product_id", productID, "raw_quantity", rawQuantity)
		return nil, nil
	}

	item := models.BillItem{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       product.Price,
		Quantity:    quantity,
		Total:       product.Price * quantity,
	}

	next := append(slices.Clone(s.items), item)
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.items = next

	slog.Info("Bill item added",
		"item_id", item.ID,
		"product", item.ProductName,
		"quantity", item.Quantity,
		"total", item.Total,
	)
	return &item, nil
}

// UpdateItem edits the quantity and/or price of an existing line and
// recomputes its total. Each raw value independently falls back to the
// previous one when it does not parse to a usable (finite, non-zero) number,
// so a bad quantity does not block a good price. Returns nil, nil if the id
// is unknown.
func (s *Session) UpdateItem(ctx context.Context, id, rawQuantity, rawPrice string) (*models.BillItem, error) {
	i := slices.IndexFunc(s.items, func(it models.BillItem) bool { return it.ID == id })
	if i < 0 {
		slog.Debug("Bill item update rejected: not found", "item_id", id)
		return nil, nil
	}

	next := slices.Clone(s.items)
	item := &next[i]

	if quantity, ok := parseNumber(rawQuantity); ok && quantity != 0 {
		item.Quantity = quantity
	}
	if price, ok := parseNumber(rawPrice); ok && price != 0 {
		item.Price = price
	}
	item.Total = item.Quantity * item.Price

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.items = next

	slog.Info("Bill item updated",
		"item_id", item.ID,
		"quantity", item.Quantity,
		"price", item.Price,
		"total", item.Total,
	)
	updated := *item
	return &updated, nil
}

// RemoveItem deletes the line with the given id. Removing an unknown id is a
// no-op.
func (s *Session) RemoveItem(ctx context.Context, id string) error {
	next := slices.DeleteFunc(slices.Clone(s.items), func(it models.BillItem) bool { return it.ID == id })
	if len(next) == len(s.items) {
		return nil
	}

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.items = next

	slog.Info("Bill item removed", "item_id", id)
	return nil
}

// GrandTotal returns the sum of all line totals. Zero for an empty bill.
func (s *Session) GrandTotal() float64 {
	var total float64
	for _, item := range s.items {
		total += item.Total
	}
	return total
}

// ShareText formats the bill as a multi-line message: every line's name,
// quantity, unit price and line total, followed by the grand total, with all
// monetary values rendered to exactly two decimals. Returns "", false for an
// empty bill.
func (s *Session) ShareText() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}

	lines := make([]string, len(s.items))
	for i, item := range s.items {
		lines[i] = fmt.Sprintf("%s\n%s x ₹%.2f = ₹%.2f",
			item.ProductName, formatQuantity(item.Quantity), item.Price, item.Total)
	}

	return fmt.Sprintf("*Bill Details*\n\n%s\n\n*Total: ₹%.2f*",
		strings.Join(lines, "\n\n"), s.GrandTotal()), true
}

func (s *Session) persist(ctx context.Context, items []models.BillItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode bill items: %w", err)
	}
	if err := s.store.Put(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to persist bill items: %w", err)
	}
	return nil
}

// formatQuantity renders a quantity without trailing zeros (2, not 2.00;
// 2.5 stays 2.5).
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// parseNumber parses a raw numeric input, rejecting non-finite values.
func parseNumber(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
