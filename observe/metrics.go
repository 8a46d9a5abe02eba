package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricCheckTotal    = "health.check.total"
	MetricCheckDown     = "health.check.down"
	MetricCheckErrors   = "health.check.errors"
	MetricCheckDuration = "health.check.duration_ms"
)

// Metrics records indicator run metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCheck records one indicator run.
	RecordCheck(ctx context.Context, meta IndicatorMeta, duration time.Duration, up bool, err error)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	downCount    metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates the health check instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		MetricCheckTotal,
		metric.WithDescription("Total number of indicator runs"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	downCount, err := meter.Int64Counter(
		MetricCheckDown,
		metric.WithDescription("Indicator runs that reported down"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		MetricCheckErrors,
		metric.WithDescription("Indicator runs that failed or panicked"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricCheckDuration,
		metric.WithDescription("Indicator run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		downCount:    downCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordCheck(ctx context.Context, meta IndicatorMeta, duration time.Duration, up bool, err error) {
	opt := metric.WithAttributes(attribute.String("health.indicator", meta.Name))

	m.totalCount.Add(ctx, 1, opt)
	if !up {
		m.downCount.Add(ctx, 1, opt)
	}
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

type noopMetrics struct{}

// NewNoopMetrics creates a Metrics that records nothing.
func NewNoopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordCheck(context.Context, IndicatorMeta, time.Duration, bool, error) {}
