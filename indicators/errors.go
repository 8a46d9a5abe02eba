package indicators

import "errors"

var (
	// ErrUnsupportedPlatform indicates the running platform cannot report the
	// requested resource.
	ErrUnsupportedPlatform = errors.New("indicators: unsupported platform")

	// ErrMissingDSN indicates a database indicator was built without a DSN.
	ErrMissingDSN = errors.New("indicators: database DSN is required")

	// ErrUnknownDriver indicates an unsupported database driver name.
	ErrUnknownDriver = errors.New("indicators: unknown database driver")
)
