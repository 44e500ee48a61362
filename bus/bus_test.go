package bus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouseops/go-allocation/bus"
	"github.com/warehouseops/go-allocation/command"
	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/message"
)

type doThing struct {
	ID int
}

func (doThing) Name() string       { return "DoThing" }
func (doThing) Kind() message.Kind { return message.KindCommand }

type thingDone struct {
	ID int
}

func (thingDone) Name() string       { return "ThingDone" }
func (thingDone) Kind() message.Kind { return message.KindEvent }

type auditRequested struct {
	ID int
}

func (auditRequested) Name() string       { return "AuditRequested" }
func (auditRequested) Kind() message.Kind { return message.KindEvent }

// mystery reports no valid kind, simulating a broken message definition.
type mystery struct{}

func (mystery) Name() string       { return "Mystery" }
func (mystery) Kind() message.Kind { return message.Kind(0) }

// collectorStub stands in for the Unit of Work event-draining protocol:
// handlers raise events on it, the bus drains them.
type collectorStub struct {
	pending []event.Event
}

func (c *collectorStub) raise(events ...event.Event) {
	c.pending = append(c.pending, events...)
}

func (c *collectorStub) CollectNewEvents() []event.Event {
	drained := c.pending
	c.pending = nil

	return drained
}

func TestMessageBus_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches a command to its registered handler", func(t *testing.T) {
		var handled []doThing

		registry := bus.NewRegistry()
		require.NoError(t, bus.RegisterCommand[doThing](registry, command.HandlerFunc[doThing](
			func(_ context.Context, cmd doThing) error {
				handled = append(handled, cmd)
				return nil
			},
		)))

		b := bus.New(registry, new(collectorStub), nil)

		require.NoError(t, b.Handle(ctx, doThing{ID: 1}))
		assert.Equal(t, []doThing{{ID: 1}}, handled)
	})

	t.Run("returns UnregisteredCommandError for an unknown command", func(t *testing.T) {
		b := bus.New(bus.NewRegistry(), new(collectorStub), nil)

		err := b.Handle(ctx, doThing{ID: 1})
		require.Error(t, err)

		var expected bus.UnregisteredCommandError
		require.ErrorAs(t, err, &expected)
		assert.Equal(t, "DoThing", expected.CommandName)
	})

	t.Run("a command handler failure aborts the remaining queue", func(t *testing.T) {
		errBoom := errors.New("boom")
		eventHandled := false

		registry := bus.NewRegistry()
		require.NoError(t, bus.RegisterCommand[doThing](registry, command.HandlerFunc[doThing](
			func(_ context.Context, _ doThing) error { return errBoom },
		)))
		bus.RegisterEvent[thingDone](registry, event.HandlerFunc[thingDone](
			func(_ context.Context, _ thingDone) error {
				eventHandled = true
				return nil
			},
		))

		b := bus.New(registry, new(collectorStub), nil)

		err := b.Handle(ctx, doThing{ID: 1}, thingDone{ID: 1})
		assert.ErrorIs(t, err, errBoom)
		assert.False(t, eventHandled, "messages queued after the failed command should not run")
	})

	t.Run("event handler failures are isolated", func(t *testing.T) {
		var handledBy []string

		registry := bus.NewRegistry()
		bus.RegisterEvent[thingDone](registry, event.HandlerFunc[thingDone](
			func(_ context.Context, _ thingDone) error { return errors.New("boom") },
		))
		bus.RegisterEvent[thingDone](registry, event.HandlerFunc[thingDone](
			func(_ context.Context, _ thingDone) error {
				handledBy = append(handledBy, "second")
				return nil
			},
		))

		b := bus.New(registry, new(collectorStub), nil)

		require.NoError(t, b.Handle(ctx, thingDone{ID: 1}))
		assert.Equal(t, []string{"second"}, handledBy)
	})

	t.Run("an event with no handlers is a no-op", func(t *testing.T) {
		b := bus.New(bus.NewRegistry(), new(collectorStub), nil)
		assert.NoError(t, b.Handle(ctx, thingDone{ID: 1}))
	})

	t.Run("transitively raised events are processed in FIFO order", func(t *testing.T) {
		var processed []string

		collector := new(collectorStub)
		registry := bus.NewRegistry()

		require.NoError(t, bus.RegisterCommand[doThing](registry, command.HandlerFunc[doThing](
			func(_ context.Context, _ doThing) error {
				collector.raise(thingDone{ID: 1}, thingDone{ID: 2})
				return nil
			},
		)))
		bus.RegisterEvent[thingDone](registry, event.HandlerFunc[thingDone](
			func(_ context.Context, evt thingDone) error {
				processed = append(processed, evt.Name())

				if evt.ID == 1 {
					collector.raise(auditRequested{ID: evt.ID})
				}

				return nil
			},
		))
		bus.RegisterEvent[auditRequested](registry, event.HandlerFunc[auditRequested](
			func(_ context.Context, evt auditRequested) error {
				processed = append(processed, evt.Name())
				return nil
			},
		))

		b := bus.New(registry, collector, nil)

		require.NoError(t, b.Handle(ctx, doThing{ID: 1}))
		assert.Equal(t, []string{"ThingDone", "ThingDone", "AuditRequested"}, processed)
	})

	t.Run("events raised by a failed handler are not collected", func(t *testing.T) {
		collected := false

		collector := new(collectorStub)
		registry := bus.NewRegistry()

		bus.RegisterEvent[thingDone](registry, event.HandlerFunc[thingDone](
			func(_ context.Context, _ thingDone) error {
				collector.raise(auditRequested{ID: 1})
				return errors.New("boom")
			},
		))
		bus.RegisterEvent[auditRequested](registry, event.HandlerFunc[auditRequested](
			func(_ context.Context, _ auditRequested) error {
				collected = true
				return nil
			},
		))

		b := bus.New(registry, collector, nil)

		require.NoError(t, b.Handle(ctx, thingDone{ID: 1}))
		assert.False(t, collected, "events raised by a failed handler should stay undrained")
	})

	t.Run("a message with an invalid kind is a configuration error", func(t *testing.T) {
		b := bus.New(bus.NewRegistry(), new(collectorStub), nil)
		assert.Error(t, b.Handle(ctx, mystery{}))
	})
}

func TestRegistry_RegisterCommand(t *testing.T) {
	registry := bus.NewRegistry()

	handler := command.HandlerFunc[doThing](func(_ context.Context, _ doThing) error {
		return nil
	})

	require.NoError(t, bus.RegisterCommand[doThing](registry, handler))
	assert.Error(t, bus.RegisterCommand[doThing](registry, handler),
		"a second handler for the same command type should be rejected")
}
