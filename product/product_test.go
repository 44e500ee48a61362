package product_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/product"
)

func TestProduct_AddBatch(t *testing.T) {
	t.Run("records a BatchCreated event", func(t *testing.T) {
		p := product.NewProduct("RED-CHAIR")

		err := p.AddBatch("batch-001", "RED-CHAIR", 20, nil)
		require.NoError(t, err)

		assert.Equal(t, []event.Event{
			product.BatchCreated{Ref: "batch-001", SKU: "RED-CHAIR", Qty: 20, ETA: nil},
		}, p.FlushRecordedEvents())

		require.Len(t, p.Batches(), 1)
		assert.Equal(t, 20, p.Batches()[0].AvailableQuantity())
	})

	t.Run("rejects a batch for a different sku", func(t *testing.T) {
		p := product.NewProduct("RED-CHAIR")

		err := p.AddBatch("batch-001", "BLUE-CHAIR", 20, nil)
		assert.ErrorIs(t, err, product.ErrSKUMismatch)
		assert.Empty(t, p.FlushRecordedEvents())
	})
}

func TestProduct_Allocate(t *testing.T) {
	tomorrow := time.Now().Add(24 * time.Hour)
	later := tomorrow.Add(48 * time.Hour)

	newProduct := func(t *testing.T, batches ...product.BatchCreated) *product.Product {
		t.Helper()

		p := product.NewProduct("RED-CHAIR")
		for _, batch := range batches {
			require.NoError(t, p.AddBatch(batch.Ref, batch.SKU, batch.Qty, batch.ETA))
		}

		p.FlushRecordedEvents()

		return p
	}

	t.Run("prefers warehouse stock over inbound shipments", func(t *testing.T) {
		p := newProduct(t,
			product.BatchCreated{Ref: "shipment", SKU: "RED-CHAIR", Qty: 100, ETA: &tomorrow},
			product.BatchCreated{Ref: "in-stock", SKU: "RED-CHAIR", Qty: 100, ETA: nil},
		)

		ref, err := p.Allocate(product.OrderLine{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10})
		require.NoError(t, err)

		assert.Equal(t, "in-stock", ref)
		assert.Equal(t, []event.Event{
			product.Allocated{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10, BatchRef: "in-stock"},
		}, p.FlushRecordedEvents())
	})

	t.Run("prefers the earliest shipment otherwise", func(t *testing.T) {
		p := newProduct(t,
			product.BatchCreated{Ref: "slow", SKU: "RED-CHAIR", Qty: 100, ETA: &later},
			product.BatchCreated{Ref: "fast", SKU: "RED-CHAIR", Qty: 100, ETA: &tomorrow},
		)

		ref, err := p.Allocate(product.OrderLine{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10})
		require.NoError(t, err)
		assert.Equal(t, "fast", ref)
	})

	t.Run("among equal candidates the first-registered batch wins", func(t *testing.T) {
		p := newProduct(t,
			product.BatchCreated{Ref: "stock-a", SKU: "RED-CHAIR", Qty: 100, ETA: nil},
			product.BatchCreated{Ref: "stock-b", SKU: "RED-CHAIR", Qty: 100, ETA: nil},
		)

		ref, err := p.Allocate(product.OrderLine{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10})
		require.NoError(t, err)
		assert.Equal(t, "stock-a", ref)

		sameETA := tomorrow
		p = newProduct(t,
			product.BatchCreated{Ref: "shipment-a", SKU: "RED-CHAIR", Qty: 100, ETA: &tomorrow},
			product.BatchCreated{Ref: "shipment-b", SKU: "RED-CHAIR", Qty: 100, ETA: &sameETA},
		)

		ref, err = p.Allocate(product.OrderLine{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10})
		require.NoError(t, err)
		assert.Equal(t, "shipment-a", ref)
	})

	t.Run("skips batches that cannot fit the line", func(t *testing.T) {
		p := newProduct(t,
			product.BatchCreated{Ref: "small", SKU: "RED-CHAIR", Qty: 5, ETA: nil},
			product.BatchCreated{Ref: "large", SKU: "RED-CHAIR", Qty: 100, ETA: &tomorrow},
		)

		ref, err := p.Allocate(product.OrderLine{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10})
		require.NoError(t, err)
		assert.Equal(t, "large", ref)
	})

	t.Run("allocating the same line twice does not reduce stock further", func(t *testing.T) {
		p := newProduct(t,
			product.BatchCreated{Ref: "in-stock", SKU: "RED-CHAIR", Qty: 20, ETA: nil},
		)

		line := product.OrderLine{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 5}

		_, err := p.Allocate(line)
		require.NoError(t, err)

		_, err = p.Allocate(line)
		require.NoError(t, err)

		assert.Equal(t, 15, p.Batches()[0].AvailableQuantity())
	})

	t.Run("records OutOfStock when no batch fits", func(t *testing.T) {
		p := newProduct(t,
			product.BatchCreated{Ref: "small", SKU: "RED-CHAIR", Qty: 5, ETA: nil},
		)

		ref, err := p.Allocate(product.OrderLine{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 10})
		assert.ErrorIs(t, err, product.ErrOutOfStock)
		assert.Empty(t, ref)

		assert.Equal(t, []event.Event{
			product.OutOfStock{SKU: "RED-CHAIR"},
		}, p.FlushRecordedEvents())
	})
}

func TestProduct_ChangeBatchQuantity(t *testing.T) {
	t.Run("changes the available quantity", func(t *testing.T) {
		p := product.NewProduct("RED-CHAIR")
		require.NoError(t, p.AddBatch("batch-001", "RED-CHAIR", 100, nil))
		p.FlushRecordedEvents()

		err := p.ChangeBatchQuantity("batch-001", 50)
		require.NoError(t, err)

		assert.Equal(t, 50, p.Batches()[0].AvailableQuantity())
		assert.Equal(t, []event.Event{
			product.BatchQuantityChanged{Ref: "batch-001", Qty: 50},
		}, p.FlushRecordedEvents())
	})

	t.Run("deallocates the newest lines until the batch fits", func(t *testing.T) {
		p := product.NewProduct("RED-CHAIR")
		require.NoError(t, p.AddBatch("batch-001", "RED-CHAIR", 100, nil))

		_, err := p.Allocate(product.OrderLine{OrderID: "order-1", SKU: "RED-CHAIR", Qty: 40})
		require.NoError(t, err)
		_, err = p.Allocate(product.OrderLine{OrderID: "order-2", SKU: "RED-CHAIR", Qty: 40})
		require.NoError(t, err)

		p.FlushRecordedEvents()

		err = p.ChangeBatchQuantity("batch-001", 60)
		require.NoError(t, err)

		assert.Equal(t, []event.Event{
			product.BatchQuantityChanged{Ref: "batch-001", Qty: 60},
			product.Deallocated{OrderID: "order-2", SKU: "RED-CHAIR", Qty: 40},
		}, p.FlushRecordedEvents())

		assert.Equal(t, 20, p.Batches()[0].AvailableQuantity())
	})

	t.Run("fails for an unknown batch ref", func(t *testing.T) {
		p := product.NewProduct("RED-CHAIR")

		err := p.ChangeBatchQuantity("no-such-batch", 10)
		assert.ErrorIs(t, err, product.ErrBatchNotFound)
	})
}
