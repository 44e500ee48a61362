package product

import (
	"time"

	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/message"
)

//nolint:exhaustruct // Interface implementation assertions.
var (
	_ event.Event = BatchCreated{}
	_ event.Event = BatchQuantityChanged{}
	_ event.Event = Allocated{}
	_ event.Event = Deallocated{}
	_ event.Event = OutOfStock{}
)

// BatchCreated is the domain event raised when a new stock Batch
// is added to a Product.
type BatchCreated struct {
	Ref string
	SKU string
	Qty int
	ETA *time.Time
}

// Name implements message.Message.
func (BatchCreated) Name() string { return "BatchCreated" }

// Kind implements message.Message.
func (BatchCreated) Kind() message.Kind { return message.KindEvent }

// BatchQuantityChanged is the domain event raised when the purchased
// quantity of a Batch is updated.
type BatchQuantityChanged struct {
	Ref string
	Qty int
}

// Name implements message.Message.
func (BatchQuantityChanged) Name() string { return "BatchQuantityChanged" }

// Kind implements message.Message.
func (BatchQuantityChanged) Kind() message.Kind { return message.KindEvent }

// Allocated is the domain event raised when an OrderLine has been
// allocated to a Batch.
type Allocated struct {
	OrderID  string
	SKU      string
	Qty      int
	BatchRef string
}

// Name implements message.Message.
func (Allocated) Name() string { return "LineAllocated" }

// Kind implements message.Message.
func (Allocated) Kind() message.Kind { return message.KindEvent }

// Deallocated is the domain event raised when an OrderLine has been
// removed from the Batch it was allocated to.
type Deallocated struct {
	OrderID string
	SKU     string
	Qty     int
}

// Name implements message.Message.
func (Deallocated) Name() string { return "LineDeallocated" }

// Kind implements message.Message.
func (Deallocated) Kind() message.Kind { return message.KindEvent }

// OutOfStock is the domain event raised when an allocation attempt
// could not be satisfied by any Batch.
type OutOfStock struct {
	SKU string
}

// Name implements message.Message.
func (OutOfStock) Name() string { return "OutOfStock" }

// Kind implements message.Message.
func (OutOfStock) Kind() message.Kind { return message.KindEvent }
