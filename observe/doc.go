// Package observe instruments health indicators with tracing, metrics and
// structured logging.
//
// It is a pure instrumentation library. Consumers build an Observer from a
// Config, derive a Middleware from it and install the Middleware's Decorator
// on a health.Aggregator so that every indicator run is traced and counted.
package observe
