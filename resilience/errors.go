package resilience

import "errors"

// ErrCircuitOpen is returned when a breaker refuses a call.
var ErrCircuitOpen = errors.New("resilience: circuit breaker is open")
