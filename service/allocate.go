package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/warehouseops/go-allocation/command"
	"github.com/warehouseops/go-allocation/product"
	"github.com/warehouseops/go-allocation/uow"
)

// ErrInvalidSKU is returned by AllocateHandler when the requested SKU
// has no Product in the write model.
var ErrInvalidSKU = errors.New("service: invalid sku")

// Interface implementation assertion.
var _ command.Handler[product.Allocate] = &AllocateHandler{}

// AllocateHandler handles Allocate commands against the Product aggregate
// for the requested SKU.
//
// An out-of-stock outcome is not a handler failure: the transaction is
// committed so that the recorded OutOfStock event still reaches its
// consumers, and the order line simply stays unallocated.
type AllocateHandler struct {
	UoW uow.UnitOfWork
}

// Handle implements command.Handler.
func (h *AllocateHandler) Handle(ctx context.Context, cmd product.Allocate) error {
	line := product.OrderLine{OrderID: cmd.OrderID, SKU: cmd.SKU, Qty: cmd.Qty}

	if err := h.UoW.Begin(ctx); err != nil {
		return fmt.Errorf("service.AllocateHandler: failed to begin unit of work, %w", err)
	}
	defer h.UoW.Rollback(ctx) //nolint:errcheck // Release-only, no-op after commit.

	p, err := h.UoW.Products().Get(ctx, cmd.SKU)
	if errors.Is(err, product.ErrNotFound) {
		return fmt.Errorf("service.AllocateHandler: %w %q", ErrInvalidSKU, cmd.SKU)
	}

	if err != nil {
		return fmt.Errorf("service.AllocateHandler: failed to get product, %w", err)
	}

	if _, err := p.Allocate(line); err != nil && !errors.Is(err, product.ErrOutOfStock) {
		return fmt.Errorf("service.AllocateHandler: failed to allocate line, %w", err)
	}

	if err := h.UoW.Commit(ctx); err != nil {
		return fmt.Errorf("service.AllocateHandler: failed to commit unit of work, %w", err)
	}

	return nil
}
