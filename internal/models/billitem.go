package models

// BillItem represents one line on the current bill.
type BillItem struct {
	// ID is the unique identifier for the line item (UUID format).
	ID string `json:"id"`

	// ProductID is the product this line was created from. Traceability
	// only; the product is never looked up again through it.
	ProductID string `json:"productId"`

	// ProductName and Price are copies of the product's fields at the time
	// the line was added (or last edited). Later catalog edits do not
	// change them.
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`

	// Quantity may be fractional. Zero or negative values are not blocked
	// after a manual edit (adjustments and returns).
	Quantity float64 `json:"quantity"`

	// Total is derived: always Quantity * Price, recomputed on every
	// create/update, never settable on its own.
	Total float64 `json:"total"`
}
