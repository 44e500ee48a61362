package service

import (
	"context"
	"fmt"

	"github.com/warehouseops/go-allocation/command"
	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/notification"
	"github.com/warehouseops/go-allocation/product"
	"github.com/warehouseops/go-allocation/pubsub"
)

// AllocatedChannel is the default channel Allocated events are published on.
const AllocatedChannel = "line_allocated"

// Interface implementation assertions.
var (
	_ event.Handler[product.OutOfStock]  = &OutOfStockNotifier{}
	_ event.Handler[product.Allocated]   = &AllocatedPublisher{}
	_ event.Handler[product.Deallocated] = &Reallocator{}
)

// OutOfStockNotifier notifies the stock administrator whenever an
// allocation attempt runs out of stock.
type OutOfStockNotifier struct {
	Destination string
	Notifier    notification.Notifier
}

// Handle implements event.Handler.
func (h *OutOfStockNotifier) Handle(ctx context.Context, evt product.OutOfStock) error {
	message := fmt.Sprintf("Out of stock for %s", evt.SKU)

	if err := h.Notifier.Send(ctx, h.Destination, message); err != nil {
		return fmt.Errorf("service.OutOfStockNotifier: failed to send notification, %w", err)
	}

	return nil
}

// AllocatedPublisher broadcasts Allocated events to external consumers
// through the publish capability.
type AllocatedPublisher struct {
	Channel   string
	Publisher pubsub.Publisher
}

// Handle implements event.Handler.
func (h *AllocatedPublisher) Handle(ctx context.Context, evt product.Allocated) error {
	channel := h.Channel
	if channel == "" {
		channel = AllocatedChannel
	}

	if err := h.Publisher.Publish(ctx, channel, evt); err != nil {
		return fmt.Errorf("service.AllocatedPublisher: failed to publish event, %w", err)
	}

	return nil
}

// Reallocator compensates Deallocated events by re-issuing an Allocate
// command for the removed order line, so it can find a home in another
// Batch. A failed reallocation surfaces as an ordinary event-handler
// error: logged by the bus, never fatal.
type Reallocator struct {
	Allocate command.Handler[product.Allocate]
}

// Handle implements event.Handler.
func (h *Reallocator) Handle(ctx context.Context, evt product.Deallocated) error {
	cmd := product.Allocate{OrderID: evt.OrderID, SKU: evt.SKU, Qty: evt.Qty}

	if err := h.Allocate.Handle(ctx, cmd); err != nil {
		return fmt.Errorf("service.Reallocator: failed to reallocate line, %w", err)
	}

	return nil
}
