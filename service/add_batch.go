// Package service contains the command and event handlers wired onto the
// message bus: the allocation use cases, the side-effecting event consumers
// and the read-model projectors.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/warehouseops/go-allocation/command"
	"github.com/warehouseops/go-allocation/product"
	"github.com/warehouseops/go-allocation/uow"
)

// Interface implementation assertion.
var _ command.Handler[product.CreateBatch] = &AddBatchHandler{}

// AddBatchHandler handles CreateBatch commands, creating the Product
// aggregate the first time a SKU is seen.
type AddBatchHandler struct {
	UoW uow.UnitOfWork
}

// Handle implements command.Handler.
func (h *AddBatchHandler) Handle(ctx context.Context, cmd product.CreateBatch) error {
	if err := h.UoW.Begin(ctx); err != nil {
		return fmt.Errorf("service.AddBatchHandler: failed to begin unit of work, %w", err)
	}
	defer h.UoW.Rollback(ctx) //nolint:errcheck // Release-only, no-op after commit.

	p, err := h.UoW.Products().Get(ctx, cmd.SKU)

	switch {
	case errors.Is(err, product.ErrNotFound):
		p = product.NewProduct(cmd.SKU)
		if err := h.UoW.Products().Add(ctx, p); err != nil {
			return fmt.Errorf("service.AddBatchHandler: failed to add new product, %w", err)
		}

	case err != nil:
		return fmt.Errorf("service.AddBatchHandler: failed to get product, %w", err)
	}

	if err := p.AddBatch(cmd.Ref, cmd.SKU, cmd.Qty, cmd.ETA); err != nil {
		return fmt.Errorf("service.AddBatchHandler: failed to add batch, %w", err)
	}

	if err := h.UoW.Commit(ctx); err != nil {
		return fmt.Errorf("service.AddBatchHandler: failed to commit unit of work, %w", err)
	}

	return nil
}
