package indicators

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/jonwraymond/healthgate/health"
)

// DefaultFreeBytesThreshold is the free space a filesystem must exceed to
// report up.
const DefaultFreeBytesThreshold uint64 = 1 << 30

// FilesystemConfig configures the filesystem indicator.
type FilesystemConfig struct {
	// Name is the indicator name.
	// Default: "filesystem"
	Name string

	// Path is any path on the filesystem to inspect.
	// Default: "."
	Path string

	// ThresholdBytes is the free space that must be exceeded.
	// Default: 1 GiB
	ThresholdBytes uint64
}

// Filesystem reports whether a filesystem has enough free space.
type Filesystem struct {
	config    FilesystemConfig
	freeBytes func(path string) (uint64, error)
}

// NewFilesystem creates a filesystem indicator.
func NewFilesystem(config FilesystemConfig) *Filesystem {
	if config.Name == "" {
		config.Name = "filesystem"
	}
	if config.Path == "" {
		config.Path = "."
	}
	if config.ThresholdBytes == 0 {
		config.ThresholdBytes = DefaultFreeBytesThreshold
	}
	return &Filesystem{config: config, freeBytes: freeBytes}
}

// Name returns the configured indicator name.
func (f *Filesystem) Name() string {
	return f.config.Name
}

// IsApplicable always returns true.
func (f *Filesystem) IsApplicable(context.Context) (bool, error) {
	return true, nil
}

// Check reports up when the free space strictly exceeds the threshold.
func (f *Filesystem) Check(context.Context) (health.Status, error) {
	free, err := f.freeBytes(f.config.Path)
	if err != nil {
		return health.Status{}, err
	}

	status := health.Down(f.Name())
	if free > f.config.ThresholdBytes {
		status = health.Up(f.Name())
	}
	return status.
		With("freebytes", free).
		With("free", humanize.IBytes(free)).
		With("threshold", humanize.IBytes(f.config.ThresholdBytes)), nil
}

var _ health.Indicator = (*Filesystem)(nil)
