package health

import "errors"

var (
	// ErrIndicatorNotFound indicates no indicator is registered under a name.
	ErrIndicatorNotFound = errors.New("health: indicator not found")

	// ErrNoApplicableIndicators indicates an aggregate check had nothing to run.
	ErrNoApplicableIndicators = errors.New("health: no applicable indicators")

	// ErrDuplicateIndicator indicates an indicator name is already registered.
	ErrDuplicateIndicator = errors.New("health: duplicate indicator")

	// ErrInvalidIndicator indicates a nil indicator or one without a name.
	ErrInvalidIndicator = errors.New("health: invalid indicator")

	// ErrMarshalStatus indicates a status attribute could not be encoded.
	ErrMarshalStatus = errors.New("health: marshal status")
)
