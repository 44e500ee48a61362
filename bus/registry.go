package bus

import (
	"context"
	"fmt"
	"reflect"

	"github.com/warehouseops/go-allocation/command"
	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/message"
)

// registration binds a type-erased handler function to the identity of the
// handler it was built from, so dispatch failures can be logged with it.
type registration struct {
	handlerName string
	handle      func(ctx context.Context, msg message.Message) error
}

// Registry is the explicit handler-routing configuration of a MessageBus.
//
// It is built once at the composition root and passed to the MessageBus
// constructor; it replaces any process-wide handler table, so test wiring
// stays deterministic. A Registry is not safe for concurrent mutation and
// must not be modified after the bus starts dispatching.
type Registry struct {
	commandHandlers map[reflect.Type]registration
	eventHandlers   map[reflect.Type][]registration
}

// NewRegistry returns a new, empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commandHandlers: make(map[reflect.Type]registration),
		eventHandlers:   make(map[reflect.Type][]registration),
	}
}

// RegisterCommand routes the Command type T to the provided Handler.
//
// Exactly one handler per Command type is allowed: registering a second
// handler for the same type is a configuration error.
func RegisterCommand[T command.Command](r *Registry, handler command.Handler[T]) error {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	if previous, ok := r.commandHandlers[typ]; ok {
		return fmt.Errorf(
			"bus.Registry: command %q already registered to handler %s",
			typ.Name(), previous.handlerName,
		)
	}

	r.commandHandlers[typ] = registration{
		handlerName: fmt.Sprintf("%T", handler),
		handle: func(ctx context.Context, msg message.Message) error {
			return handler.Handle(ctx, msg.(T))
		},
	}

	return nil
}

// RegisterEvent appends the provided Handler to the ordered handler list
// for the Event type T. Handlers are invoked in registration order.
func RegisterEvent[T event.Event](r *Registry, handler event.Handler[T]) {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	r.eventHandlers[typ] = append(r.eventHandlers[typ], registration{
		handlerName: fmt.Sprintf("%T", handler),
		handle: func(ctx context.Context, msg message.Message) error {
			return handler.Handle(ctx, msg.(T))
		},
	})
}
