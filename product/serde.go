package product

import (
	"time"

	"github.com/warehouseops/go-allocation/serde"
)

// BatchState is the storable representation of a Batch.
type BatchState struct {
	Ref               string      `json:"ref"`
	SKU               string      `json:"sku"`
	PurchasedQuantity int         `json:"purchased_quantity"`
	ETA               *time.Time  `json:"eta,omitempty"`
	Allocations       []OrderLine `json:"allocations,omitempty"`
}

// State is the storable representation of a Product aggregate,
// used by state-storage repositories.
type State struct {
	SKU     string       `json:"sku"`
	Batches []BatchState `json:"batches"`
}

// StateSerde is the serde.Serde implementation mapping a Product
// to and from its storable State representation.
//
//nolint:exhaustruct // Serializer and Deserializer are set by Fuse.
var StateSerde = serde.Fuse[*Product, State](
	serde.SerializerFunc[*Product, State](stateSerializer),
	serde.DeserializerFunc[*Product, State](stateDeserializer),
)

func stateSerializer(p *Product) (State, error) {
	state := State{SKU: p.sku, Batches: nil}

	for _, batch := range p.batches {
		allocations := make([]OrderLine, len(batch.allocations))
		copy(allocations, batch.allocations)

		state.Batches = append(state.Batches, BatchState{
			Ref:               batch.ref,
			SKU:               batch.sku,
			PurchasedQuantity: batch.purchasedQuantity,
			ETA:               batch.eta,
			Allocations:       allocations,
		})
	}

	return state, nil
}

func stateDeserializer(state State) (*Product, error) {
	p := NewProduct(state.SKU)

	for _, bs := range state.Batches {
		batch := NewBatch(bs.Ref, bs.SKU, bs.PurchasedQuantity, bs.ETA)
		batch.allocations = append(batch.allocations, bs.Allocations...)
		p.batches = append(p.batches, batch)
	}

	return p, nil
}
