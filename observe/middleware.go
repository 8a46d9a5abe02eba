package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/healthgate/auth"
	"github.com/jonwraymond/healthgate/health"
)

// Middleware wraps indicators with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: wrapped indicators are as safe for concurrent use as the
//     indicators they wrap.
//   - Errors: statuses and errors from the wrapped indicator are returned
//     unchanged. Panics are recorded and keep propagating to the caller.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
// Nil components are replaced by no-op implementations.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Wrap returns ind instrumented by m.
func (m *Middleware) Wrap(ind health.Indicator) health.Indicator {
	return &instrumentedIndicator{inner: ind, mw: m}
}

// Decorator returns m.Wrap as a health.Decorator for health.WithDecorator.
func (m *Middleware) Decorator() health.Decorator {
	return m.Wrap
}

// InstrumentIndicator wraps ind with mw.
func InstrumentIndicator(ind health.Indicator, mw *Middleware) health.Indicator {
	return mw.Wrap(ind)
}

type instrumentedIndicator struct {
	inner health.Indicator
	mw    *Middleware
}

func (i *instrumentedIndicator) Name() string {
	return i.inner.Name()
}

func (i *instrumentedIndicator) IsApplicable(ctx context.Context) (bool, error) {
	return i.inner.IsApplicable(ctx)
}

func (i *instrumentedIndicator) Check(ctx context.Context) (health.Status, error) {
	meta := IndicatorMeta{Name: i.inner.Name(), Realm: auth.RealmFromContext(ctx)}
	ctx, span := i.mw.tracer.StartSpan(ctx, meta)
	start := time.Now()

	finished := false
	defer func() {
		if !finished {
			i.mw.record(ctx, span, meta, time.Since(start), false, ErrIndicatorPanicked)
		}
	}()

	status, err := i.inner.Check(ctx)
	finished = true

	i.mw.record(ctx, span, meta, time.Since(start), err == nil && status.Up(), err)
	return status, err
}

func (m *Middleware) record(ctx context.Context, span trace.Span, meta IndicatorMeta, d time.Duration, up bool, err error) {
	m.tracer.EndSpan(span, up, err)
	m.metrics.RecordCheck(ctx, meta, d, up, err)

	logger := m.logger.WithIndicator(meta.Name)
	fields := []Field{
		{Key: "duration_ms", Value: float64(d) / float64(time.Millisecond)},
		{Key: "up", Value: up},
	}
	switch {
	case err != nil:
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "health check failed", fields...)
	case !up:
		logger.Warn(ctx, "health check reported down", fields...)
	default:
		logger.Debug(ctx, "health check completed", fields...)
	}
}
