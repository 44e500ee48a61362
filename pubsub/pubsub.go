// Package pubsub defines the event-publish capability used to broadcast
// Domain Events outside the process, together with the adapters shipped
// with the library.
package pubsub

import (
	"context"
	"sync"

	"github.com/warehouseops/go-allocation/event"
)

// Publisher is the capability interface for publishing a Domain Event
// on a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, evt event.Event) error
}

// PublisherFunc is a functional type that implements the Publisher interface.
type PublisherFunc func(ctx context.Context, channel string, evt event.Event) error

// Publish implements pubsub.Publisher.
func (fn PublisherFunc) Publish(ctx context.Context, channel string, evt event.Event) error {
	return fn(ctx, channel, evt)
}

// Published is an event recorded by a Recorder.
type Published struct {
	Channel string
	Event   event.Event
}

// Interface implementation assertion.
var _ Publisher = new(Recorder)

// Recorder is a fake Publisher that keeps the published events in-memory.
// Useful for testing, this implementation is thread-safe.
type Recorder struct {
	mx        sync.RWMutex
	published []Published
}

// NewRecorder creates a new Recorder instance.
func NewRecorder() *Recorder {
	return new(Recorder)
}

// Publish implements pubsub.Publisher by recording the event.
func (r *Recorder) Publish(_ context.Context, channel string, evt event.Event) error {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.published = append(r.published, Published{Channel: channel, Event: evt})

	return nil
}

// Published returns the events recorded so far.
func (r *Recorder) Published() []Published {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return r.published
}
