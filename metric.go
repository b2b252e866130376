package emitter

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// metrics holds the OpenTelemetry instruments of a manager.
// Instruments are created once; with metrics disabled a noop meter is used.
type metrics struct {
	triggered      metric.Int64Counter
	calls          metric.Int64Counter
	errors         metric.Int64Counter
	stopped        metric.Int64Counter
	subscribed     metric.Int64Counter
	removed        metric.Int64Counter
	triggerLatency metric.Float64Histogram
}

func newMetrics(name string, enabled bool) *metrics {
	var meter metric.Meter
	if enabled {
		meter = otel.Meter(name)
	} else {
		meter = noop.NewMeterProvider().Meter(name)
	}

	// Instrument constructors only fail on invalid names; on error the
	// returned instrument is a usable noop.
	m := &metrics{}
	m.triggered, _ = meter.Int64Counter("emitter.triggered",
		metric.WithDescription("Total number of triggered events"))
	m.calls, _ = meter.Int64Counter("emitter.listener.calls",
		metric.WithDescription("Total number of successful listener calls"))
	m.errors, _ = meter.Int64Counter("emitter.listener.errors",
		metric.WithDescription("Total number of listener failures"))
	m.stopped, _ = meter.Int64Counter("emitter.stopped",
		metric.WithDescription("Total number of triggers halted by a listener or continue predicate"))
	m.subscribed, _ = meter.Int64Counter("emitter.subscribed",
		metric.WithDescription("Total number of registered listeners"))
	m.removed, _ = meter.Int64Counter("emitter.removed",
		metric.WithDescription("Total number of removed listeners"))
	m.triggerLatency, _ = meter.Float64Histogram("emitter.trigger.duration",
		metric.WithDescription("Duration of a trigger including all listener calls"),
		metric.WithUnit("ms"))
	return m
}

func (m *metrics) recordTrigger(ctx context.Context, name string, executed int, stopped bool, failed bool, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("event", name))
	m.triggered.Add(ctx, 1, attrs)
	if executed > 0 {
		m.calls.Add(ctx, int64(executed), attrs)
	}
	if stopped {
		m.stopped.Add(ctx, 1, attrs)
	}
	if failed {
		m.errors.Add(ctx, 1, attrs)
	}
	m.triggerLatency.Record(ctx, float64(d)/float64(time.Millisecond), attrs)
}

func (m *metrics) recordSubscribed(pattern string, n int) {
	m.subscribed.Add(context.Background(), int64(n), metric.WithAttributes(attribute.String("pattern", pattern)))
}

func (m *metrics) recordRemoved(pattern string, n int) {
	if n <= 0 {
		return
	}
	m.removed.Add(context.Background(), int64(n), metric.WithAttributes(attribute.String("pattern", pattern)))
}
