package health

import (
	"context"
	"slices"
	"strings"
)

// Decorator wraps an indicator before it is guarded, e.g. to add telemetry.
type Decorator func(Indicator) Indicator

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithDecorator wraps every indicator the aggregator runs with d.
func WithDecorator(d Decorator) AggregatorOption {
	return func(a *Aggregator) {
		a.decorate = d
	}
}

// Aggregator runs the indicators of a Registry and folds their results.
//
// Indicators run sequentially on the calling goroutine. The Aggregator holds
// no per-request state and is safe for concurrent use when its Registry is.
type Aggregator struct {
	registry Registry
	decorate Decorator
}

// NewAggregator creates an aggregator over registry.
func NewAggregator(registry Registry, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{registry: registry}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CheckAll runs every applicable registered indicator. It returns false when
// no indicator is registered or none is applicable.
func (a *Aggregator) CheckAll(ctx context.Context) (Status, bool) {
	return checkAll(ctx, a.registry.All(), a.decorate)
}

// CheckOne runs the named indicator regardless of its applicability.
// It returns false when no indicator has that name.
func (a *Aggregator) CheckOne(ctx context.Context, name string) (Status, bool) {
	ind, ok := a.registry.Find(name)
	if !ok {
		return Status{}, false
	}
	if a.decorate != nil {
		ind = a.decorate(ind)
	}
	return NewGuard(ind).Check(ctx), true
}

// CheckAll deduplicates indicators, orders them by name, runs the applicable
// ones through a Guard and folds the results.
//
// With no applicable indicator the result is absent. A single applicable
// indicator yields its own status. Two or more yield an aggregated status
// whose children are in ascending name order.
func CheckAll(ctx context.Context, indicators []Indicator) (Status, bool) {
	return checkAll(ctx, indicators, nil)
}

func checkAll(ctx context.Context, indicators []Indicator, decorate Decorator) (Status, bool) {
	guards := sortedGuards(indicators, decorate)

	var acc *accumulator
	for _, g := range guards {
		if !g.IsApplicable(ctx) {
			continue
		}
		acc = acc.combine(g.Check(ctx))
	}
	return acc.result()
}

// CheckOne runs the first indicator named name, in the order given, through a
// Guard. Applicability is not consulted.
func CheckOne(ctx context.Context, indicators []Indicator, name string) (Status, bool) {
	for _, ind := range indicators {
		if ind == nil {
			continue
		}
		g := NewGuard(ind)
		if g.Name() == name {
			return g.Check(ctx), true
		}
	}
	return Status{}, false
}

// accumulator collects folded statuses. A nil accumulator is the empty fold.
type accumulator struct {
	children []Status
}

func (acc *accumulator) combine(next Status) *accumulator {
	if acc == nil {
		return &accumulator{children: []Status{next}}
	}
	acc.children = append(acc.children, next)
	return acc
}

func (acc *accumulator) result() (Status, bool) {
	if acc == nil || len(acc.children) == 0 {
		return Status{}, false
	}
	if len(acc.children) == 1 {
		return acc.children[0], true
	}
	return Aggregate(acc.children...), true
}

// sortedGuards deduplicates on the undecorated indicators so that wrapping
// never defeats identity.
func sortedGuards(indicators []Indicator, decorate Decorator) []*Guard {
	seen := make(map[Indicator]struct{}, len(indicators))
	guards := make([]*Guard, 0, len(indicators))

	for _, ind := range indicators {
		if ind == nil {
			continue
		}
		if seenBefore(seen, ind) {
			continue
		}
		if decorate != nil {
			ind = decorate(ind)
		}
		guards = append(guards, NewGuard(ind))
	}

	slices.SortStableFunc(guards, func(a, b *Guard) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return guards
}

// seenBefore records ind and reports whether it was already recorded.
// Indicators that cannot be hashed, such as structs holding a slice in an
// interface field, are never deduplicated.
func seenBefore(seen map[Indicator]struct{}, ind Indicator) (dup bool) {
	defer func() {
		if recover() != nil {
			dup = false
		}
	}()
	if _, ok := seen[ind]; ok {
		return true
	}
	seen[ind] = struct{}{}
	return false
}
