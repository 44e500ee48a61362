// Package bus implements the in-process message bus that dispatches
// Commands and Events to their registered handlers, draining the Domain
// Events raised by aggregates after each handler invocation.
package bus

import (
	"context"
	"fmt"
	"reflect"

	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/logger"
	"github.com/warehouseops/go-allocation/message"
)

// UnregisteredCommandError is returned by MessageBus.Handle when no handler
// has been registered for a dispatched Command type. It signals a wiring
// bug in the composition root, not a runtime failure to retry.
type UnregisteredCommandError struct {
	CommandName string
}

// Error implements the error interface.
func (err UnregisteredCommandError) Error() string {
	return fmt.Sprintf("bus: no handler registered for command %q", err.CommandName)
}

// EventCollector exposes the Unit of Work's event-draining protocol
// to the bus dispatch loop.
type EventCollector interface {
	CollectNewEvents() []event.Event
}

// MessageBus processes Messages to exhaustion, including Events raised
// transitively by handlers through the Unit of Work.
//
// Dispatch is single-threaded and synchronous: a MessageBus instance,
// together with its Unit of Work, belongs to one caller at a time.
// Concurrency across requests is achieved with one bus per request.
//
// Use New to create a new MessageBus instance.
type MessageBus struct {
	registry  *Registry
	collector EventCollector
	logger    logger.Logger
}

// New creates a MessageBus dispatching through the provided Registry and
// draining newly-raised Domain Events from the provided collector
// (typically the Unit of Work shared with the command handlers).
func New(registry *Registry, collector EventCollector, log logger.Logger) *MessageBus {
	return &MessageBus{
		registry:  registry,
		collector: collector,
		logger:    log,
	}
}

// Handle processes the provided Messages in strict FIFO order.
//
// Commands are routed to exactly one handler; a handler failure aborts the
// whole call and is returned to the caller, leaving the remaining queue
// unprocessed. Events are broadcast to their handlers in registration
// order; each handler failure is logged and swallowed, so that remaining
// handlers and queued messages still run.
//
// After every successfully completed handler invocation, the Domain Events
// newly raised through the Unit of Work are appended to the end of the
// queue, preserving FIFO order for transitively-raised events.
//
// Handle returns no value besides the error: callers needing data must
// issue a subsequent query against the read model or a repository.
func (b *MessageBus) Handle(ctx context.Context, msgs ...message.Message) error {
	queue := make([]message.Message, len(msgs))
	copy(queue, msgs)

	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]

		switch msg.Kind() {
		case message.KindCommand:
			var err error
			if queue, err = b.handleCommand(ctx, msg, queue); err != nil {
				return err
			}

		case message.KindEvent:
			queue = b.handleEvent(ctx, msg, queue)

		default:
			return fmt.Errorf("bus.MessageBus: message %q reports invalid kind %d", msg.Name(), msg.Kind())
		}
	}

	return nil
}

func (b *MessageBus) handleCommand(
	ctx context.Context,
	msg message.Message,
	queue []message.Message,
) ([]message.Message, error) {
	reg, ok := b.registry.commandHandlers[reflect.TypeOf(msg)]
	if !ok {
		return queue, UnregisteredCommandError{CommandName: msg.Name()}
	}

	logger.Debug(b.logger, "handling command",
		logger.With("command", msg.Name()),
		logger.With("handler", reg.handlerName),
	)

	if err := reg.handle(ctx, msg); err != nil {
		// A failed write must not let derived events or notifications
		// proceed: the remaining queue is dropped.
		return queue, fmt.Errorf("bus.MessageBus: failed to execute command %q, %w", msg.Name(), err)
	}

	return b.collectNewEvents(queue), nil
}

func (b *MessageBus) handleEvent(
	ctx context.Context,
	msg message.Message,
	queue []message.Message,
) []message.Message {
	for _, reg := range b.registry.eventHandlers[reflect.TypeOf(msg)] {
		logger.Debug(b.logger, "handling event",
			logger.With("event", msg.Name()),
			logger.With("handler", reg.handlerName),
		)

		if err := reg.handle(ctx, msg); err != nil {
			// Events are facts already committed: failing to notify or
			// project must not roll back the fact itself.
			logger.Error(b.logger, "event handler failed",
				logger.With("event", msg.Name()),
				logger.With("handler", reg.handlerName),
				logger.With("error", err.Error()),
			)

			continue
		}

		queue = b.collectNewEvents(queue)
	}

	return queue
}

func (b *MessageBus) collectNewEvents(queue []message.Message) []message.Message {
	if b.collector == nil {
		return queue
	}

	for _, evt := range b.collector.CollectNewEvents() {
		queue = append(queue, evt)
	}

	return queue
}
