package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouseops/go-allocation/bus"
	"github.com/warehouseops/go-allocation/notification"
	"github.com/warehouseops/go-allocation/product"
	"github.com/warehouseops/go-allocation/pubsub"
	"github.com/warehouseops/go-allocation/readmodel"
	"github.com/warehouseops/go-allocation/service"
	"github.com/warehouseops/go-allocation/uow"
)

type fixture struct {
	bus           *bus.MessageBus
	view          *readmodel.InMemoryView
	notifications *notification.Recorder
	published     *pubsub.Recorder
}

// newFixture wires the full handler set on in-memory infrastructure,
// mirroring the production wiring performed by the bootstrap package.
func newFixture(t *testing.T) fixture {
	t.Helper()

	var (
		unit          = uow.NewInMemory(uow.NewInMemoryStore())
		view          = readmodel.NewInMemoryView()
		notifications = notification.NewRecorder()
		published     = pubsub.NewRecorder()
	)

	allocate := &service.AllocateHandler{UoW: unit}
	registry := bus.NewRegistry()

	require.NoError(t, bus.RegisterCommand[product.CreateBatch](registry, &service.AddBatchHandler{UoW: unit}))
	require.NoError(t, bus.RegisterCommand[product.Allocate](registry, allocate))
	require.NoError(t, bus.RegisterCommand[product.ChangeBatchQuantity](registry, &service.ChangeBatchQuantityHandler{UoW: unit}))

	bus.RegisterEvent[product.Allocated](registry, &service.AddAllocationProjector{View: view})
	bus.RegisterEvent[product.Allocated](registry, &service.AllocatedPublisher{Channel: "", Publisher: published})
	bus.RegisterEvent[product.Deallocated](registry, &service.RemoveAllocationProjector{View: view})
	bus.RegisterEvent[product.Deallocated](registry, &service.Reallocator{Allocate: allocate})
	bus.RegisterEvent[product.OutOfStock](registry, &service.OutOfStockNotifier{
		Destination: "stock@warehouse.local",
		Notifier:    notifications,
	})

	return fixture{
		bus:           bus.New(registry, unit, nil),
		view:          view,
		notifications: notifications,
		published:     published,
	}
}

func TestAllocation(t *testing.T) {
	ctx := context.Background()

	t.Run("allocating a line projects it into the allocations view", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.bus.Handle(ctx,
			product.CreateBatch{Ref: "batch-001", SKU: "RED-CHAIR", Qty: 100, ETA: nil},
			product.Allocate{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10},
		))

		rows, err := f.view.Get(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, []readmodel.Allocation{
			{SKU: "RED-CHAIR", BatchRef: "batch-001"},
		}, rows)
	})

	t.Run("allocating a line publishes the Allocated event", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.bus.Handle(ctx,
			product.CreateBatch{Ref: "batch-001", SKU: "RED-CHAIR", Qty: 100, ETA: nil},
			product.Allocate{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10},
		))

		assert.Equal(t, []pubsub.Published{{
			Channel: service.AllocatedChannel,
			Event:   product.Allocated{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10, BatchRef: "batch-001"},
		}}, f.published.Published())
	})

	t.Run("allocating an unknown sku fails the dispatch", func(t *testing.T) {
		f := newFixture(t)

		err := f.bus.Handle(ctx, product.Allocate{OrderID: "order-1", SKU: "NO-SUCH-SKU", Qty: 10})
		assert.ErrorIs(t, err, service.ErrInvalidSKU)
	})

	t.Run("running out of stock notifies the stock admin", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.bus.Handle(ctx,
			product.CreateBatch{Ref: "batch-001", SKU: "RED-CHAIR", Qty: 5, ETA: nil},
			product.Allocate{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10},
		))

		assert.Equal(t, []notification.Sent{{
			Destination: "stock@warehouse.local",
			Message:     "Out of stock for RED-CHAIR",
		}}, f.notifications.Sent())

		rows, err := f.view.Get(ctx, "order-1")
		require.NoError(t, err)
		assert.Empty(t, rows, "an unallocated line should not appear in the view")
	})

	t.Run("shrinking a batch reallocates its lines elsewhere", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.bus.Handle(ctx,
			product.CreateBatch{Ref: "batch-001", SKU: "RED-CHAIR", Qty: 100, ETA: nil},
			product.Allocate{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 40},
		))
		require.NoError(t, f.bus.Handle(ctx,
			product.CreateBatch{Ref: "batch-002", SKU: "RED-CHAIR", Qty: 100, ETA: nil},
		))

		require.NoError(t, f.bus.Handle(ctx,
			product.ChangeBatchQuantity{Ref: "batch-001", Qty: 20},
		))

		rows, err := f.view.Get(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, []readmodel.Allocation{
			{SKU: "RED-CHAIR", BatchRef: "batch-002"},
		}, rows)
	})

	t.Run("deallocating without spare stock leaves the line unallocated", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.bus.Handle(ctx,
			product.CreateBatch{Ref: "batch-001", SKU: "RED-CHAIR", Qty: 100, ETA: nil},
			product.Allocate{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 40},
		))

		require.NoError(t, f.bus.Handle(ctx,
			product.ChangeBatchQuantity{Ref: "batch-001", Qty: 20},
		))

		rows, err := f.view.Get(ctx, "order-1")
		require.NoError(t, err)
		assert.Empty(t, rows)

		assert.Equal(t, []notification.Sent{{
			Destination: "stock@warehouse.local",
			Message:     "Out of stock for RED-CHAIR",
		}}, f.notifications.Sent())
	})
}
