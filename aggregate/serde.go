package aggregate

import (
	"fmt"

	"github.com/warehouseops/go-allocation/serde"
)

// RehydrateFromState rehydrates an Aggregate Root instance from a state
// representation previously produced by a compatible Serializer,
// restoring the version the Aggregate Root had when the state was stored.
func RehydrateFromState[Src any, T Root](
	v int64,
	src Src,
	deserializer serde.Deserializer[T, Src],
) (T, error) {
	root, err := deserializer.Deserialize(src)
	if err != nil {
		return root, fmt.Errorf("aggregate.RehydrateFromState: failed to deserialize state into aggregate root, %w", err)
	}

	root.setVersion(v)

	return root, nil
}
