package config

import "errors"

// Sentinel errors for configuration validation.
var (
	ErrMissingAddr       = errors.New("config: server address is required")
	ErrMissingRealm      = errors.New("config: auth realm is required")
	ErrConflictingJWTKey = errors.New("config: jwt jwks_url and secret are mutually exclusive")
	ErrInvalidAPIKey     = errors.New("config: api key requires id, key and realm")
	ErrDuplicateAPIKey   = errors.New("config: duplicate api key id")
	ErrInvalidThreshold  = errors.New("config: invalid filesystem threshold")
	ErrInvalidPeer       = errors.New("config: cluster peer requires a url")
	ErrInvalidRatio      = errors.New("config: memory thresholds must be between 0 and 1")
)
