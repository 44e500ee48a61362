package readmodel

import (
	"context"
	"sort"
	"sync"
)

// Interface implementation assertion.
var _ AllocationsView = new(InMemoryView)

// InMemoryView is a thread-safe, in-memory AllocationsView implementation.
type InMemoryView struct {
	mx sync.RWMutex

	// orderID -> sku -> batchRef
	allocations map[string]map[string]string
}

// NewInMemoryView creates a new InMemoryView instance.
func NewInMemoryView() *InMemoryView {
	return &InMemoryView{
		mx:          sync.RWMutex{},
		allocations: make(map[string]map[string]string),
	}
}

// Get implements readmodel.AllocationsView.
func (v *InMemoryView) Get(_ context.Context, orderID string) ([]Allocation, error) {
	v.mx.RLock()
	defer v.mx.RUnlock()

	rows := make([]Allocation, 0, len(v.allocations[orderID]))
	for sku, batchRef := range v.allocations[orderID] {
		rows = append(rows, Allocation{SKU: sku, BatchRef: batchRef})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].SKU < rows[j].SKU })

	return rows, nil
}

// Add implements readmodel.AllocationsView.
func (v *InMemoryView) Add(_ context.Context, orderID, sku, batchRef string) error {
	v.mx.Lock()
	defer v.mx.Unlock()

	if v.allocations[orderID] == nil {
		v.allocations[orderID] = make(map[string]string)
	}

	v.allocations[orderID][sku] = batchRef

	return nil
}

// Remove implements readmodel.AllocationsView.
func (v *InMemoryView) Remove(_ context.Context, orderID, sku string) error {
	v.mx.Lock()
	defer v.mx.Unlock()

	delete(v.allocations[orderID], sku)

	return nil
}
