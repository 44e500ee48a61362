package product

import (
	"time"
)

// OrderLine is the value object representing a quantity of a specific SKU
// requested by a customer order.
type OrderLine struct {
	OrderID string `json:"order_id"`
	SKU     string `json:"sku"`
	Qty     int    `json:"qty"`
}

// Batch is a shipment of stock for a single SKU, either already in the
// warehouse (no ETA) or inbound (with an ETA).
type Batch struct {
	ref               string
	sku               string
	purchasedQuantity int
	eta               *time.Time

	// allocations keeps insertion order: deallocation on shrink
	// pops the newest line first.
	allocations []OrderLine
}

// NewBatch creates a new Batch with no allocations.
func NewBatch(ref, sku string, qty int, eta *time.Time) *Batch {
	return &Batch{
		ref:               ref,
		sku:               sku,
		purchasedQuantity: qty,
		eta:               eta,
	}
}

// Ref returns the batch reference.
func (b *Batch) Ref() string { return b.ref }

// SKU returns the stock-keeping unit the Batch holds.
func (b *Batch) SKU() string { return b.sku }

// ETA returns the estimated arrival time of the Batch,
// or nil if the stock is already in the warehouse.
func (b *Batch) ETA() *time.Time { return b.eta }

// AllocatedQuantity returns the total quantity currently allocated
// from this Batch.
func (b *Batch) AllocatedQuantity() int {
	total := 0
	for _, line := range b.allocations {
		total += line.Qty
	}

	return total
}

// AvailableQuantity returns the quantity still available for allocation.
func (b *Batch) AvailableQuantity() int {
	return b.purchasedQuantity - b.AllocatedQuantity()
}

// CanAllocate reports whether the provided OrderLine fits in this Batch.
func (b *Batch) CanAllocate(line OrderLine) bool {
	return b.sku == line.SKU && b.AvailableQuantity() >= line.Qty
}

func (b *Batch) contains(line OrderLine) bool {
	for _, allocated := range b.allocations {
		if allocated == line {
			return true
		}
	}

	return false
}

func (b *Batch) allocate(line OrderLine) {
	if b.contains(line) {
		return
	}

	b.allocations = append(b.allocations, line)
}

func (b *Batch) deallocate(line OrderLine) bool {
	for i, allocated := range b.allocations {
		if allocated == line {
			b.allocations = append(b.allocations[:i], b.allocations[i+1:]...)
			return true
		}
	}

	return false
}

// earlier reports whether this Batch should be preferred over the other
// for allocation: warehouse stock first, then earliest ETA. Ties keep the
// other Batch, so among equals the first-registered one wins.
func (b *Batch) earlier(other *Batch) bool {
	if other.eta == nil {
		return false
	}

	if b.eta == nil {
		return true
	}

	return b.eta.Before(*other.eta)
}
