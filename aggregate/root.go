// Package aggregate exposes the building blocks for modeling Domain
// Aggregates that buffer the Domain Events they raise until the Unit of Work
// drains them.
package aggregate

import (
	"fmt"

	"github.com/warehouseops/go-allocation/event"
)

// Applier is the segregated interface, part of the Aggregate Root interface,
// that describes the left-folding behavior of Domain Events to update the
// Aggregate Root state.
type Applier interface {
	// Apply applies the specified Event to the Aggregate Root,
	// by causing a state change in the Aggregate Root instance.
	//
	// Since this method cause a state change, implementors should make sure
	// to use pointer semantics on their Aggregate Root method receivers.
	//
	// Please note, this method should not perform any kind of external request
	// and should be, save for the Aggregate Root state mutation, free of side effects.
	// For this reason, this method does not include a context.Context instance
	// in the input parameters.
	Apply(event.Event) error
}

// Root is the interface describing an Aggregate Root instance.
//
// This interface should be implemented by your Aggregate Root types.
// Make sure your Aggregate Root types embed the aggregate.BaseRoot type
// to complete the implementation of this interface.
type Root interface {
	Applier

	// Version returns the current Aggregate Root version.
	// The version gets updated each time a new event is recorded
	// through the aggregate.RecordThat function.
	Version() int64

	// FlushRecordedEvents drains the pending-event buffer of the Aggregate
	// Root, returning the drained Events.
	//
	// Each recorded Event is returned at most once: calling this method
	// again yields nothing until further mutation occurs. Only the Unit of
	// Work that has seen this Aggregate should call it.
	FlushRecordedEvents() []event.Event

	setVersion(int64)
	recordThat(Applier, ...event.Event) error
}

// RecordThat records the Domain Event for the specified Aggregate Root.
//
// An error is typically returned if applying the Domain Event on the Aggregate
// Root instance fails with an error.
func RecordThat(root Root, events ...event.Event) error {
	return root.recordThat(root, events...)
}

// BaseRoot segregates and completes the aggregate.Root interface implementation
// when embedded to a user-defined Aggregate Root type.
//
// BaseRoot provides some common traits, such as tracking the current Aggregate
// Root version, and the recorded-but-undrained Domain Events, through
// the aggregate.RecordThat function.
type BaseRoot struct {
	version        int64
	recordedEvents []event.Event
}

// Version returns the current version of the Aggregate Root instance.
func (br BaseRoot) Version() int64 { return br.version }

func (br *BaseRoot) setVersion(v int64) { br.version = v }

// FlushRecordedEvents implements aggregate.Root.
func (br *BaseRoot) FlushRecordedEvents() []event.Event {
	flushed := br.recordedEvents
	br.recordedEvents = nil

	return flushed
}

func (br *BaseRoot) recordThat(applier Applier, events ...event.Event) error {
	for _, evt := range events {
		if err := applier.Apply(evt); err != nil {
			return fmt.Errorf("aggregate: failed to record event, %w", err)
		}

		br.recordedEvents = append(br.recordedEvents, evt)
		br.version++
	}

	return nil
}
