// Package models defines the core domain models for QuickBill.
//
// Two independent aggregates exist:
//   - Product: an entry in the sellable-product catalog
//   - BillItem: a line on the current in-progress bill
//
// A BillItem carries a point-in-time copy of the Product's name and price
// taken when the line was added. The two are intentionally decoupled: editing
// or deleting a Product never touches existing bill lines. BillItem.ProductID
// is kept for traceability only and is never re-resolved.
//
// JSON tags match the persisted layout under the storage keys
// "billing-products" and "billing-items".
package models
