// Package message exposes the generic Message type, the root of every
// payload travelling on the message bus (Commands and Events).
package message

// Kind discriminates the two families of messages handled by the bus.
type Kind uint8

const (
	// KindCommand marks a message expressing an intent to change state,
	// addressed to exactly one handler.
	KindCommand Kind = iota + 1

	// KindEvent marks a message stating a fact that already happened,
	// broadcast to zero or more handlers.
	KindEvent
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Message is a Message payload.
//
// Each payload should have a unique name identifier, that can be used
// to uniquely route a message to its type, and a Kind that discriminates
// how the bus dispatches it.
type Message interface {
	Name() string
	Kind() Kind
}
