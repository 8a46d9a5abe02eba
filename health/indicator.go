package health

import "context"

// Indicator is a pluggable probe reporting the health of one dependency.
//
// Contract:
//   - Name must be unique and stable; it is used for ordering and lookup.
//   - IsApplicable and Check may fail either by returning an error or by
//     panicking. Callers on the aggregation path never invoke them directly;
//     they go through a Guard.
//   - Check may block. No deadline is imposed beyond what ctx carries.
type Indicator interface {
	// Name returns the unique name of this indicator.
	Name() string

	// IsApplicable reports whether the indicator should run in the current
	// environment.
	IsApplicable(ctx context.Context) (bool, error)

	// Check performs the probe and returns its status.
	Check(ctx context.Context) (Status, error)
}

// IndicatorFunc adapts ordinary functions into an Indicator.
type IndicatorFunc struct {
	name       string
	check      func(context.Context) (Status, error)
	applicable func(context.Context) (bool, error)
}

// NewIndicatorFunc creates an always-applicable indicator backed by fn.
func NewIndicatorFunc(name string, fn func(context.Context) (Status, error)) *IndicatorFunc {
	return &IndicatorFunc{name: name, check: fn}
}

// WithApplicability sets the applicability predicate.
func (f *IndicatorFunc) WithApplicability(fn func(context.Context) (bool, error)) *IndicatorFunc {
	f.applicable = fn
	return f
}

// Name returns the indicator name.
func (f *IndicatorFunc) Name() string {
	return f.name
}

// IsApplicable calls the applicability predicate, if any.
func (f *IndicatorFunc) IsApplicable(ctx context.Context) (bool, error) {
	if f.applicable == nil {
		return true, nil
	}
	return f.applicable(ctx)
}

// Check calls the check function.
func (f *IndicatorFunc) Check(ctx context.Context) (Status, error) {
	return f.check(ctx)
}

var _ Indicator = (*IndicatorFunc)(nil)
