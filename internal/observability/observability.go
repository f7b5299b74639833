// Package observability wires the shared OpenTelemetry tracer and meter
// used by the ticket service and the RPC facade, and the counter/span
// helper both reach for around a single call.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/banton/stompy-ticketing"

// Providers bundles the tracer and meter providers a caller may inject via
// RegisterOptions. A zero Providers falls back to the process-wide OTel
// globals, which are themselves no-ops until a host configures them.
type Providers struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Instrumentation holds the derived tracer, meter, and call counter for one
// component (the service, or the RPC facade). Built once at construction
// time and shared by every method on that component.
type Instrumentation struct {
	tracer  trace.Tracer
	calls   metric.Int64Counter
	latency metric.Float64Histogram
}

// New derives an Instrumentation for component (e.g. "ticketsvc",
// "rpcfacade") from p, falling back to the global providers when p's
// fields are nil.
func New(component string, p Providers) *Instrumentation {
	tp := p.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := p.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(instrumentationName)
	calls, _ := meter.Int64Counter(
		component+".calls",
		metric.WithDescription("count of "+component+" method invocations by method and outcome"),
	)
	latency, _ := meter.Float64Histogram(
		component+".latency_ms",
		metric.WithDescription("latency of "+component+" method invocations in milliseconds"),
	)

	return &Instrumentation{
		tracer:  tp.Tracer(instrumentationName),
		calls:   calls,
		latency: latency,
	}
}

// Call starts a span named component.method, runs fn, and records the
// span's error status and the call/latency counters keyed by method and
// outcome. Latency is measured around fn itself, in milliseconds. It
// returns fn's error unchanged.
func (i *Instrumentation) Call(ctx context.Context, spanName, method string, fn func(ctx context.Context) error) error {
	ctx, span := i.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("method", method),
	))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsedMS := float64(time.Since(start)) / float64(time.Millisecond)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	)
	i.calls.Add(ctx, 1, attrs)
	i.latency.Record(ctx, elapsedMS, attrs)

	return err
}
