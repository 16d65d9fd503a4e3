package models

// Product represents a sellable catalog entry.
type Product struct {
	// ID is the unique identifier for the product (UUID format).
	// Assigned at creation time and never reused after deletion.
	ID string `json:"id"`

	// Name is the display name, always non-empty and trimmed.
	Name string `json:"name"`

	// Price is the unit price. Always finite and > 0 for a stored product;
	// enforced at write time, not retroactively.
	Price float64 `json:"price"`
}
