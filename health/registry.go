package health

import (
	"fmt"
	"sync"
)

// Registry supplies the indicators available to an Aggregator.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - All returns a slice the caller may modify.
type Registry interface {
	// All returns every registered indicator.
	All() []Indicator

	// Find returns the indicator registered under name.
	Find(name string) (Indicator, bool)
}

// MemoryRegistry is an in-memory Registry populated at startup.
type MemoryRegistry struct {
	mu         sync.RWMutex
	indicators map[string]Indicator
	order      []string // Maintains registration order
}

// NewMemoryRegistry creates a registry holding the given indicators.
func NewMemoryRegistry(indicators ...Indicator) (*MemoryRegistry, error) {
	r := &MemoryRegistry{
		indicators: make(map[string]Indicator),
		order:      make([]string, 0, len(indicators)),
	}
	for _, ind := range indicators {
		if err := r.Register(ind); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an indicator. Names must be unique.
func (r *MemoryRegistry) Register(ind Indicator) error {
	if ind == nil {
		return ErrInvalidIndicator
	}
	name := nameOf(ind)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidIndicator)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateIndicator, name)
	}
	r.indicators[name] = ind
	r.order = append(r.order, name)
	return nil
}

// Unregister removes the named indicator.
func (r *MemoryRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.indicators[name]; !ok {
		return
	}
	delete(r.indicators, name)

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Names returns registered names in registration order.
func (r *MemoryRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// All returns the indicators in registration order.
func (r *MemoryRegistry) All() []Indicator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Indicator, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.indicators[name])
	}
	return out
}

// Find returns the indicator registered under name.
func (r *MemoryRegistry) Find(name string) (Indicator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ind, ok := r.indicators[name]
	return ind, ok
}

// IndicatorList is a fixed Registry backed by a slice. Find returns the first
// indicator with a matching name in slice order.
type IndicatorList []Indicator

// All returns a copy of the list.
func (l IndicatorList) All() []Indicator {
	out := make([]Indicator, len(l))
	copy(out, l)
	return out
}

// Find returns the first indicator named name.
func (l IndicatorList) Find(name string) (Indicator, bool) {
	for _, ind := range l {
		if ind != nil && nameOf(ind) == name {
			return ind, true
		}
	}
	return nil, false
}

var (
	_ Registry = (*MemoryRegistry)(nil)
	_ Registry = IndicatorList(nil)
)
