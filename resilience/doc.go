// Package resilience guards remote dependencies of health indicators.
//
// A Breaker stops probing a dependency that keeps failing and lets a single
// probe through once its cool-down has passed. Breakers are kept per target
// in a BreakerSet, so one unreachable cluster peer does not cost a network
// timeout on every health request.
//
//	set := resilience.NewBreakerSet(resilience.BreakerConfig{
//	    MaxFailures:  3,
//	    ResetTimeout: 30 * time.Second,
//	})
//
//	err := set.Get("node-2").Execute(ctx, func(ctx context.Context) error {
//	    return probe(ctx, "http://node-2:8080")
//	})
//	if errors.Is(err, resilience.ErrCircuitOpen) {
//	    // skipped: node-2 failed recently
//	}
//
// The package applies no retries and no timeouts of its own.
package resilience
