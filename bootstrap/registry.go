package bootstrap

import (
	"fmt"
	"reflect"
)

// Names of the dependencies Bootstrap provides to its Registry and
// resolves while wiring event handlers.
const (
	NotificationsDep = "notifications"
	PublishDep       = "publish"
	ViewDep          = "view"
)

// UnknownDependencyError is returned by Resolve when no dependency has
// been provided under the requested name.
type UnknownDependencyError struct {
	Name string
}

// Error implements the error interface.
func (err UnknownDependencyError) Error() string {
	return fmt.Sprintf("bootstrap: unknown dependency %q", err.Name)
}

// Registry is the named dependency map used by the composition root.
//
// Handlers never pull from it at dispatch time: Bootstrap resolves each
// dependency once and binds it into the handler struct, so a handler
// receives only the capabilities it names. The Registry must not be
// mutated after Bootstrap returns.
type Registry struct {
	deps map[string]any
}

// NewRegistry returns a new, empty dependency Registry.
func NewRegistry() *Registry {
	return &Registry{
		deps: make(map[string]any),
	}
}

// Provide registers a dependency under the given name, replacing any
// previous dependency with that name.
func (r *Registry) Provide(name string, dep any) {
	r.deps[name] = dep
}

// Resolve returns the dependency registered under the given name,
// asserted to the capability type T.
//
// Both failure modes are configuration errors: UnknownDependencyError
// when the name was never provided, and a type-mismatch error when the
// provided dependency does not satisfy T.
func Resolve[T any](r *Registry, name string) (T, error) {
	var zeroValue T

	dep, ok := r.deps[name]
	if !ok {
		return zeroValue, UnknownDependencyError{Name: name}
	}

	typed, ok := dep.(T)
	if !ok {
		return zeroValue, fmt.Errorf(
			"bootstrap: dependency %q has type %T, expected %s",
			name, dep, reflect.TypeOf(&zeroValue).Elem(),
		)
	}

	return typed, nil
}
