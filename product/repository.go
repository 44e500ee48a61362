package product

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Repository when no Product exists
// for the requested SKU or batch reference.
var ErrNotFound = errors.New("product: not found")

// Repository is the port used by command handlers to load and store
// Product aggregates.
//
// Implementations must track every aggregate they return or receive
// ("seen" aggregates), so that the Unit of Work can drain their recorded
// Domain Events after each handler invocation.
type Repository interface {
	// Add stores a new Product aggregate.
	Add(ctx context.Context, p *Product) error

	// Get returns the Product aggregate for the given SKU.
	// ErrNotFound is returned when the Product does not exist.
	Get(ctx context.Context, sku string) (*Product, error)

	// GetByBatchRef returns the Product aggregate owning the Batch
	// with the given reference. ErrNotFound is returned when no such
	// Batch exists.
	GetByBatchRef(ctx context.Context, ref string) (*Product, error)
}
