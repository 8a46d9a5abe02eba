package health

import (
	"context"
	"fmt"
	"runtime/debug"
)

// PanicError records a panic raised by indicator code.
type PanicError struct {
	// Indicator is the name of the indicator that panicked.
	Indicator string

	// Value is the value passed to panic.
	Value any

	// Stack is the goroutine stack at the time of the panic.
	Stack []byte
}

// Error returns the error message.
func (e *PanicError) Error() string {
	return fmt.Sprintf("health: indicator %q panicked: %v", e.Indicator, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Outcome is the result of running an indicator: either a Status or a fault.
type Outcome struct {
	Status Status
	Fault  error
}

// Resolve maps the outcome to a Status for the named indicator.
//
// A fault becomes a down status with state=error and a non-empty message.
// A successful status without a name is given the indicator's name.
func (o Outcome) Resolve(name string) Status {
	if o.Fault == nil {
		if o.Status.name == "" && !o.Status.IsAggregate() {
			return o.Status.WithName(name)
		}
		return o.Status
	}

	msg := o.Fault.Error()
	if msg == "" {
		msg = fmt.Sprintf("%T", o.Fault)
	}
	return Down(name).
		With(AttrState, "error").
		With(AttrMessage, msg)
}

// Guard wraps an Indicator so that none of its faults escape.
//
// Check and IsApplicable never panic and never return an error. The Guard
// does not bound the indicator's running time.
type Guard struct {
	indicator Indicator
	name      string
}

// NewGuard wraps ind.
func NewGuard(ind Indicator) *Guard {
	return &Guard{indicator: ind, name: nameOf(ind)}
}

// Name returns the wrapped indicator's name, or "" if it could not be read.
func (g *Guard) Name() string {
	return g.name
}

// Indicator returns the wrapped indicator.
func (g *Guard) Indicator() Indicator {
	return g.indicator
}

// IsApplicable reports whether the wrapped indicator is applicable.
// Any fault is treated as not applicable.
func (g *Guard) IsApplicable(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	applicable, err := g.indicator.IsApplicable(ctx)
	if err != nil {
		return false
	}
	return applicable
}

// Run executes the wrapped indicator's check, capturing errors and panics.
func (g *Guard) Run(ctx context.Context) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Fault: &PanicError{
				Indicator: g.name,
				Value:     r,
				Stack:     debug.Stack(),
			}}
		}
	}()

	status, err := g.indicator.Check(ctx)
	if err != nil {
		return Outcome{Fault: err}
	}
	return Outcome{Status: status}
}

// Check runs the wrapped indicator and returns its status, converting any
// fault into a down status.
func (g *Guard) Check(ctx context.Context) Status {
	return g.Run(ctx).Resolve(g.name)
}

func nameOf(ind Indicator) (name string) {
	defer func() {
		if r := recover(); r != nil {
			name = ""
		}
	}()
	return ind.Name()
}
