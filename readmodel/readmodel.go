// Package readmodel exposes the denormalized allocations view used to
// answer queries, kept eventually consistent with the write model by the
// projector event handlers.
package readmodel

import (
	"context"
)

// Allocation is a single row of the allocations view: the batch an order
// line for a given SKU ended up allocated to.
type Allocation struct {
	SKU      string `json:"sku"`
	BatchRef string `json:"batchref"`
}

// AllocationsView is the keyed read-model store.
//
// It is written only by the projector event handlers, never by write-side
// logic, and is updated in a transaction separate from the write model:
// between write-model commit and view update, Get may return stale results.
type AllocationsView interface {
	// Get returns the allocations recorded for the given order,
	// ordered by SKU. An order with no allocations yields an empty slice.
	Get(ctx context.Context, orderID string) ([]Allocation, error)

	// Add upserts the allocation row for (orderID, sku). Applying the same
	// allocation twice leaves exactly one row for the key.
	Add(ctx context.Context, orderID, sku, batchRef string) error

	// Remove deletes the allocation row for (orderID, sku), if any.
	Remove(ctx context.Context, orderID, sku string) error
}
