package product

import (
	"time"

	"github.com/warehouseops/go-allocation/command"
	"github.com/warehouseops/go-allocation/message"
)

//nolint:exhaustruct // Interface implementation assertions.
var (
	_ command.Command = CreateBatch{}
	_ command.Command = Allocate{}
	_ command.Command = ChangeBatchQuantity{}
)

// CreateBatch is the domain command to add a new stock Batch for a SKU,
// creating the Product on first use.
type CreateBatch struct {
	Ref string
	SKU string
	Qty int
	ETA *time.Time
}

// Name implements message.Message.
func (CreateBatch) Name() string { return "CreateBatch" }

// Kind implements message.Message.
func (CreateBatch) Kind() message.Kind { return message.KindCommand }

// Allocate is the domain command to allocate an order line
// against the available Batches of a Product.
type Allocate struct {
	OrderID string
	SKU     string
	Qty     int
}

// Name implements message.Message.
func (Allocate) Name() string { return "Allocate" }

// Kind implements message.Message.
func (Allocate) Kind() message.Kind { return message.KindCommand }

// ChangeBatchQuantity is the domain command to update the purchased
// quantity of a Batch, deallocating order lines that no longer fit.
type ChangeBatchQuantity struct {
	Ref string
	Qty int
}

// Name implements message.Message.
func (ChangeBatchQuantity) Name() string { return "ChangeBatchQuantity" }

// Kind implements message.Message.
func (ChangeBatchQuantity) Kind() message.Kind { return message.KindCommand }
