// Package event contains the types to model and handle Domain Events.
package event

import (
	"context"

	"github.com/warehouseops/go-allocation/message"
)

// Event is a Message representing some Domain information that has happened
// in the past, which is of vital information to the Domain itself.
// Its Kind must report message.KindEvent.
//
// Event type names should be phrased in the past tense, to enforce the notion
// of "information happened in the past".
type Event interface {
	message.Message
}

// Handler is the interface that defines an Event Handler, a component
// that reacts to a specific kind of Event broadcast by the message bus.
//
// Differently from Command Handlers, multiple Event Handlers can be
// registered for the same Event type, and a failing Handler does not
// prevent the remaining ones from running.
type Handler[T Event] interface {
	Handle(ctx context.Context, evt T) error
}

// HandlerFunc is a functional type that implements the Handler interface.
// Useful for testing and stateless Handlers.
type HandlerFunc[T Event] func(context.Context, T) error

// Handle implements event.Handler.
func (fn HandlerFunc[T]) Handle(ctx context.Context, evt T) error {
	return fn(ctx, evt)
}
