package otelbus

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/warehouseops/go-allocation/message"
)

// Attribute keys used by the InstrumentedBus instrumentation.
const (
	ErrorAttribute       attribute.Key = "error"
	MessageNameAttribute attribute.Key = "message.name"
	MessageKindAttribute attribute.Key = "message.kind"
)

// Bus is the message-dispatching interface instrumented by this package,
// implemented by bus.MessageBus.
type Bus interface {
	Handle(ctx context.Context, msgs ...message.Message) error
}

// Interface implementation assertion.
var _ Bus = &InstrumentedBus{}

// InstrumentedBus is a wrapper type over a Bus instance to provide
// instrumentation, in the form of metrics and traces using OpenTelemetry.
//
// Use NewInstrumentedBus for constructing a new instance of this type.
type InstrumentedBus struct {
	bus Bus

	tracer         trace.Tracer
	messageCount   metric.Int64Counter
	handleDuration metric.Int64Histogram
}

func (ib *InstrumentedBus) registerMetrics(meter metric.Meter) error {
	var err error

	if ib.messageCount, err = meter.Int64Counter(
		"allocation.bus.messages.count",
		metric.WithDescription("Number of messages submitted to MessageBus.Handle."),
	); err != nil {
		return fmt.Errorf("otelbus.InstrumentedBus: failed to register metric, %w", err)
	}

	if ib.handleDuration, err = meter.Int64Histogram(
		"allocation.bus.handle.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of MessageBus.Handle calls performed."),
	); err != nil {
		return fmt.Errorf("otelbus.InstrumentedBus: failed to register metric, %w", err)
	}

	return nil
}

// NewInstrumentedBus returns a wrapper type to provide OpenTelemetry
// instrumentation (metrics and traces) around a Bus.
//
// An error is returned if metrics could not be registered.
func NewInstrumentedBus(bus Bus, options ...Option) (*InstrumentedBus, error) {
	cfg := newConfig(options...)

	ib := &InstrumentedBus{
		bus:    bus,
		tracer: cfg.tracer(),
	}

	if err := ib.registerMetrics(cfg.meter()); err != nil {
		return nil, err
	}

	return ib, nil
}

// Handle calls the wrapped Bus.Handle method and records metrics and
// traces around it.
//
// The trace only covers the dispatch entrypoint: Events raised
// transitively during the call are processed inside the same span.
func (ib *InstrumentedBus) Handle(ctx context.Context, msgs ...message.Message) (err error) {
	spanAttributes := make([]attribute.KeyValue, 0, len(msgs)*2)

	for _, msg := range msgs {
		spanAttributes = append(spanAttributes,
			MessageNameAttribute.String(msg.Name()),
			MessageKindAttribute.String(msg.Kind().String()),
		)

		ib.messageCount.Add(ctx, 1, metric.WithAttributes(
			MessageNameAttribute.String(msg.Name()),
			MessageKindAttribute.String(msg.Kind().String()),
		))
	}

	ctx, span := ib.tracer.Start(ctx, "MessageBus.Handle", trace.WithAttributes(spanAttributes...))
	start := time.Now()

	defer func() {
		duration := time.Since(start)
		ib.handleDuration.Record(ctx, duration.Milliseconds(), metric.WithAttributes(
			ErrorAttribute.Bool(err != nil),
		))

		if err != nil {
			span.RecordError(err)
		}

		span.End()
	}()

	err = ib.bus.Handle(ctx, msgs...)

	return
}
