// Package command contains the types to model and handle Domain Commands.
package command

import (
	"context"

	"github.com/warehouseops/go-allocation/message"
)

// Command is a Message representing an action being performed by something
// or somebody. Its Kind must report message.KindCommand.
//
// In order to enforce this concept, it is suggested to name Command types
// using "present tense".
type Command interface {
	message.Message
}

// Handler is the interface that defines a Command Handler,
// a component that receives a specific kind of Command
// and executes the business logic related to that particular Command.
type Handler[T Command] interface {
	Handle(ctx context.Context, cmd T) error
}

// HandlerFunc is a functional type that implements the Handler interface.
// Useful for testing and stateless Handlers.
type HandlerFunc[T Command] func(context.Context, T) error

// Handle implements command.Handler.
func (fn HandlerFunc[T]) Handle(ctx context.Context, cmd T) error {
	return fn(ctx, cmd)
}
