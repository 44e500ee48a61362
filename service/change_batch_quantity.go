package service

import (
	"context"
	"fmt"

	"github.com/warehouseops/go-allocation/command"
	"github.com/warehouseops/go-allocation/product"
	"github.com/warehouseops/go-allocation/uow"
)

// Interface implementation assertion.
var _ command.Handler[product.ChangeBatchQuantity] = &ChangeBatchQuantityHandler{}

// ChangeBatchQuantityHandler handles ChangeBatchQuantity commands,
// shrinking or growing a Batch and letting the aggregate deallocate
// the order lines that no longer fit.
type ChangeBatchQuantityHandler struct {
	UoW uow.UnitOfWork
}

// Handle implements command.Handler.
func (h *ChangeBatchQuantityHandler) Handle(ctx context.Context, cmd product.ChangeBatchQuantity) error {
	if err := h.UoW.Begin(ctx); err != nil {
		return fmt.Errorf("service.ChangeBatchQuantityHandler: failed to begin unit of work, %w", err)
	}
	defer h.UoW.Rollback(ctx) //nolint:errcheck // Release-only, no-op after commit.

	p, err := h.UoW.Products().GetByBatchRef(ctx, cmd.Ref)
	if err != nil {
		return fmt.Errorf("service.ChangeBatchQuantityHandler: failed to get product, %w", err)
	}

	if err := p.ChangeBatchQuantity(cmd.Ref, cmd.Qty); err != nil {
		return fmt.Errorf("service.ChangeBatchQuantityHandler: failed to change batch quantity, %w", err)
	}

	if err := h.UoW.Commit(ctx); err != nil {
		return fmt.Errorf("service.ChangeBatchQuantityHandler: failed to commit unit of work, %w", err)
	}

	return nil
}
