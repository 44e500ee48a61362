package service

import (
	"context"
	"fmt"

	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/product"
	"github.com/warehouseops/go-allocation/readmodel"
)

// Interface implementation assertions.
var (
	_ event.Handler[product.Allocated]   = &AddAllocationProjector{}
	_ event.Handler[product.Deallocated] = &RemoveAllocationProjector{}
)

// AddAllocationProjector keeps the allocations view in sync with
// Allocated events. It has no special status on the bus: it is registered
// like any other event handler, and updates the view in its own
// transaction, separate from the write model's.
type AddAllocationProjector struct {
	View readmodel.AllocationsView
}

// Handle implements event.Handler.
func (h *AddAllocationProjector) Handle(ctx context.Context, evt product.Allocated) error {
	if err := h.View.Add(ctx, evt.OrderID, evt.SKU, evt.BatchRef); err != nil {
		return fmt.Errorf("service.AddAllocationProjector: failed to upsert allocation, %w", err)
	}

	return nil
}

// RemoveAllocationProjector removes the view row for a deallocated
// order line.
type RemoveAllocationProjector struct {
	View readmodel.AllocationsView
}

// Handle implements event.Handler.
func (h *RemoveAllocationProjector) Handle(ctx context.Context, evt product.Deallocated) error {
	if err := h.View.Remove(ctx, evt.OrderID, evt.SKU); err != nil {
		return fmt.Errorf("service.RemoveAllocationProjector: failed to remove allocation, %w", err)
	}

	return nil
}
