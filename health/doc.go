// Package health aggregates pluggable health indicators into one status.
//
// An Indicator probes a single dependency. Indicators are untrusted: they may
// return errors, panic or block. Every call made on the aggregation path goes
// through a Guard, which turns errors and panics into a down Status carrying
// a diagnostic message and never lets a fault escape.
//
// # Aggregation
//
// CheckAll orders indicators by name, drops the ones that are not applicable
// (or whose applicability check faults) and folds the remaining results:
//
//   - no applicable indicator: no result
//   - exactly one: that indicator's own Status
//   - two or more: an aggregated Status whose children are in name order and
//     which is up only if every child is up
//
// CheckOne looks up a single indicator by name and runs it without consulting
// applicability.
//
// Indicators run one after another on the calling goroutine. There is no
// per-indicator timeout; a blocked indicator blocks the whole aggregate.
//
// # Basic Usage
//
//	registry, _ := health.NewMemoryRegistry(dbIndicator, fsIndicator)
//	agg := health.NewAggregator(registry)
//
//	status, ok := agg.CheckAll(ctx)
//	if !ok {
//	    // nothing applicable
//	}
//	if !status.Up() {
//	    log.Printf("degraded: %v", status)
//	}
package health
