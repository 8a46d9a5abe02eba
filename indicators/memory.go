package indicators

import (
	"context"
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"

	"github.com/jonwraymond/healthgate/health"
)

// MemoryConfig configures the memory indicator.
type MemoryConfig struct {
	// Name is the indicator name.
	// Default: "memory"
	Name string

	// WarningThreshold is the usage ratio that adds level=warning.
	// Value should be between 0 and 1. Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the usage ratio that reports down.
	// Value should be between 0 and 1. Default: 0.95
	CriticalThreshold float64

	// MaxAlloc is the allocation in bytes that counts as full.
	// Default: 0, which uses the memory obtained from the OS.
	MaxAlloc uint64
}

// Memory reports heap usage of the current process.
type Memory struct {
	config    MemoryConfig
	readStats func(*runtime.MemStats)
}

// NewMemory creates a memory indicator.
func NewMemory(config MemoryConfig) *Memory {
	if config.Name == "" {
		config.Name = "memory"
	}
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = min(config.WarningThreshold+0.1, 0.99)
	}
	return &Memory{config: config, readStats: runtime.ReadMemStats}
}

// Name returns the configured indicator name.
func (m *Memory) Name() string {
	return m.config.Name
}

// IsApplicable always returns true.
func (m *Memory) IsApplicable(context.Context) (bool, error) {
	return true, nil
}

// Check compares the live heap with the configured maximum.
func (m *Memory) Check(ctx context.Context) (health.Status, error) {
	if err := ctx.Err(); err != nil {
		return health.Status{}, err
	}

	var stats runtime.MemStats
	m.readStats(&stats)

	maxAlloc := m.config.MaxAlloc
	if maxAlloc == 0 {
		maxAlloc = stats.Sys
	}
	if maxAlloc == 0 {
		return health.Up(m.Name()).With(health.AttrMessage, "memory stats unavailable"), nil
	}

	ratio := float64(stats.Alloc) / float64(maxAlloc)

	status := health.Up(m.Name())
	if ratio >= m.config.CriticalThreshold {
		status = health.Down(m.Name())
	}
	status = status.
		With("alloc", humanize.IBytes(stats.Alloc)).
		With("allocBytes", stats.Alloc).
		With("maxAllocBytes", maxAlloc).
		With("usagePercent", fmt.Sprintf("%.1f", ratio*100)).
		With("heapObjects", stats.HeapObjects).
		With("numGC", stats.NumGC).
		With("goroutines", runtime.NumGoroutine())

	switch {
	case ratio >= m.config.CriticalThreshold:
		status = status.With("level", "critical")
	case ratio >= m.config.WarningThreshold:
		status = status.With("level", "warning")
	}
	return status, nil
}

var _ health.Indicator = (*Memory)(nil)
