// Package notification defines the outbound notification capability used
// by event handlers, together with the adapters shipped with the library.
//
// A concrete mail transport is deliberately out of this module's scope:
// production deployments plug their own adapter through the bootstrap
// overrides.
package notification

import (
	"context"
	"sync"

	"github.com/warehouseops/go-allocation/logger"
)

// Notifier is the capability interface for sending a notification
// to a destination (e.g. an email address).
type Notifier interface {
	Send(ctx context.Context, destination, message string) error
}

// NotifierFunc is a functional type that implements the Notifier interface.
type NotifierFunc func(ctx context.Context, destination, message string) error

// Send implements notification.Notifier.
func (fn NotifierFunc) Send(ctx context.Context, destination, message string) error {
	return fn(ctx, destination, message)
}

// Interface implementation assertion.
var _ Notifier = &LogNotifier{}

// LogNotifier is a Notifier that writes notifications to the structured
// logger. It is the bootstrap default when no transport is configured.
type LogNotifier struct {
	Logger logger.Logger
}

// Send implements notification.Notifier.
func (n *LogNotifier) Send(_ context.Context, destination, message string) error {
	logger.Info(n.Logger, "notification sent",
		logger.With("destination", destination),
		logger.With("message", message),
	)

	return nil
}

// Sent is a notification recorded by a Recorder.
type Sent struct {
	Destination string
	Message     string
}

// Interface implementation assertion.
var _ Notifier = new(Recorder)

// Recorder is a fake Notifier that keeps the notifications it receives
// in-memory. Useful for testing, this implementation is thread-safe.
type Recorder struct {
	mx   sync.RWMutex
	sent []Sent
}

// NewRecorder creates a new Recorder instance.
func NewRecorder() *Recorder {
	return new(Recorder)
}

// Send implements notification.Notifier by recording the notification.
func (r *Recorder) Send(_ context.Context, destination, message string) error {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.sent = append(r.sent, Sent{Destination: destination, Message: message})

	return nil
}

// Sent returns the notifications recorded so far.
func (r *Recorder) Sent() []Sent {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return r.sent
}
