// Package otelbus provides OpenTelemetry instrumentation (metrics and
// traces) around a message bus.
package otelbus

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/warehouseops/go-allocation/extension/otelbus"

type config struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func (c config) tracer() trace.Tracer {
	return c.tracerProvider.Tracer(instrumentationName)
}

func (c config) meter() metric.Meter {
	return c.meterProvider.Meter(instrumentationName)
}

// Option allows to modify the configuration for the instrumentation
// provided by this package.
type Option func(*config)

// WithTracerProvider specifies the trace.TracerProvider to use for the
// instrumentation. Defaults to the global provider registered with otel.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *config) { c.tracerProvider = provider }
}

// WithMeterProvider specifies the metric.MeterProvider to use for the
// instrumentation. Defaults to the global provider registered with otel.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(c *config) { c.meterProvider = provider }
}

func newConfig(options ...Option) config {
	cfg := config{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}

	for _, option := range options {
		option(&cfg)
	}

	return cfg
}
