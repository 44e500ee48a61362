// Package product models the allocation write model: a Product aggregate
// per SKU, owning the stock Batches that order lines are allocated against.
package product

import (
	"errors"
	"fmt"
	"time"

	"github.com/warehouseops/go-allocation/aggregate"
	"github.com/warehouseops/go-allocation/event"
)

// All the errors returned by Product methods.
var (
	ErrOutOfStock    = errors.New("product: out of stock")
	ErrBatchNotFound = errors.New("product: batch not found")
	ErrSKUMismatch   = errors.New("product: batch sku does not match product sku")
)

var _ aggregate.Root = &Product{}

// Product is the Aggregate Root for a single SKU, holding every Batch
// purchased for it. All state changes go through recorded Domain Events.
type Product struct {
	aggregate.BaseRoot

	sku     string
	batches []*Batch
}

// NewProduct creates a new Product for the specified SKU, with no Batches.
func NewProduct(sku string) *Product {
	return &Product{sku: sku}
}

// SKU returns the stock-keeping unit this Product tracks.
func (p *Product) SKU() string { return p.sku }

// Batches returns the stock Batches of the Product, in creation order.
func (p *Product) Batches() []*Batch { return p.batches }

func (p *Product) batchByRef(ref string) *Batch {
	for _, batch := range p.batches {
		if batch.Ref() == ref {
			return batch
		}
	}

	return nil
}

// Apply implements aggregate.Applier.
func (p *Product) Apply(evt event.Event) error {
	switch kind := evt.(type) {
	case BatchCreated:
		p.batches = append(p.batches, NewBatch(kind.Ref, kind.SKU, kind.Qty, kind.ETA))

	case BatchQuantityChanged:
		batch := p.batchByRef(kind.Ref)
		if batch == nil {
			return fmt.Errorf("product.Apply: %w, ref %s", ErrBatchNotFound, kind.Ref)
		}

		batch.purchasedQuantity = kind.Qty

	case Allocated:
		batch := p.batchByRef(kind.BatchRef)
		if batch == nil {
			return fmt.Errorf("product.Apply: %w, ref %s", ErrBatchNotFound, kind.BatchRef)
		}

		batch.allocate(OrderLine{OrderID: kind.OrderID, SKU: kind.SKU, Qty: kind.Qty})

	case Deallocated:
		line := OrderLine{OrderID: kind.OrderID, SKU: kind.SKU, Qty: kind.Qty}
		for _, batch := range p.batches {
			if batch.deallocate(line) {
				break
			}
		}

	case OutOfStock:
		// A fact for downstream consumers, no state to fold.

	default:
		return fmt.Errorf("product.Apply: unexpected event type, %T", evt)
	}

	return nil
}

// AddBatch adds a new stock Batch to the Product.
func (p *Product) AddBatch(ref string, sku string, qty int, eta *time.Time) error {
	if sku != p.sku {
		return fmt.Errorf("product.AddBatch: %w", ErrSKUMismatch)
	}

	if err := aggregate.RecordThat(p, BatchCreated{Ref: ref, SKU: sku, Qty: qty, ETA: eta}); err != nil {
		return fmt.Errorf("product.AddBatch: failed to record domain event, %w", err)
	}

	return nil
}

// Allocate allocates the provided OrderLine against the preferred Batch,
// choosing warehouse stock first, then the earliest ETA.
//
// The reference of the chosen Batch is returned. ErrOutOfStock is returned
// (and an OutOfStock event recorded) when no Batch can satisfy the line.
func (p *Product) Allocate(line OrderLine) (string, error) {
	var preferred *Batch

	for _, batch := range p.batches {
		if !batch.CanAllocate(line) {
			continue
		}

		if preferred == nil || batch.earlier(preferred) {
			preferred = batch
		}
	}

	if preferred == nil {
		if err := aggregate.RecordThat(p, OutOfStock{SKU: line.SKU}); err != nil {
			return "", fmt.Errorf("product.Allocate: failed to record domain event, %w", err)
		}

		return "", fmt.Errorf("product.Allocate: sku %s, %w", line.SKU, ErrOutOfStock)
	}

	if err := aggregate.RecordThat(p, Allocated{
		OrderID:  line.OrderID,
		SKU:      line.SKU,
		Qty:      line.Qty,
		BatchRef: preferred.Ref(),
	}); err != nil {
		return "", fmt.Errorf("product.Allocate: failed to record domain event, %w", err)
	}

	return preferred.Ref(), nil
}

// ChangeBatchQuantity updates the purchased quantity of the Batch identified
// by ref, deallocating the newest order lines until the Batch fits again.
// Each removed line is recorded as a Deallocated event, so that downstream
// handlers can compensate (e.g. by reallocating the line elsewhere).
func (p *Product) ChangeBatchQuantity(ref string, qty int) error {
	batch := p.batchByRef(ref)
	if batch == nil {
		return fmt.Errorf("product.ChangeBatchQuantity: %w, ref %s", ErrBatchNotFound, ref)
	}

	if err := aggregate.RecordThat(p, BatchQuantityChanged{Ref: ref, Qty: qty}); err != nil {
		return fmt.Errorf("product.ChangeBatchQuantity: failed to record domain event, %w", err)
	}

	for batch.AvailableQuantity() < 0 {
		line := batch.allocations[len(batch.allocations)-1]

		if err := aggregate.RecordThat(p, Deallocated{
			OrderID: line.OrderID,
			SKU:     line.SKU,
			Qty:     line.Qty,
		}); err != nil {
			return fmt.Errorf("product.ChangeBatchQuantity: failed to record domain event, %w", err)
		}
	}

	return nil
}
