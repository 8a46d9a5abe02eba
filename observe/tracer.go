package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// IndicatorMeta describes one indicator run for telemetry purposes.
type IndicatorMeta struct {
	Name  string // Indicator name (may be empty for misbehaving indicators)
	Realm string // Realm of the caller that triggered the run (optional)
}

// SpanName returns the deterministic span name for this indicator.
// Format: health.check.<name>
func (m IndicatorMeta) SpanName() string {
	if m.Name == "" {
		return "health.check.unnamed"
	}
	return "health.check." + m.Name
}

func (m IndicatorMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("health.indicator", m.Name)}
	if m.Realm != "" {
		attrs = append(attrs, attribute.String("health.realm", m.Realm))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with indicator-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for an indicator run.
	StartSpan(ctx context.Context, meta IndicatorMeta) (context.Context, trace.Span)

	// EndSpan records the reported state and any fault, then ends the span.
	EndSpan(span trace.Span, up bool, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta IndicatorMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(meta.attributes()...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan marks faults as span errors. A down indicator that reported
// normally is not an error, only an attribute.
func (t *tracerImpl) EndSpan(span trace.Span, up bool, err error) {
	span.SetAttributes(
		attribute.Bool("health.up", up),
		attribute.Bool("health.error", err != nil),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a tracer that records nothing.
func NewNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta IndicatorMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ bool, _ error) {
	span.End()
}
