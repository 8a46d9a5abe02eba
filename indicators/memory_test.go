package indicators

import (
	"context"
	"runtime"
	"testing"
)

func TestNewMemory_Thresholds(t *testing.T) {
	tests := []struct {
		name         string
		config       MemoryConfig
		wantWarning  float64
		wantCritical float64
	}{
		{"defaults", MemoryConfig{}, 0.8, 0.95},
		{"custom", MemoryConfig{WarningThreshold: 0.7, CriticalThreshold: 0.9}, 0.7, 0.9},
		{"invalid warning", MemoryConfig{WarningThreshold: 1.5}, 0.8, 0.95},
		{"critical below warning", MemoryConfig{WarningThreshold: 0.9, CriticalThreshold: 0.5}, 0.9, 0.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(tt.config)
			if m.config.WarningThreshold != tt.wantWarning {
				t.Errorf("WarningThreshold = %v, want %v", m.config.WarningThreshold, tt.wantWarning)
			}
			if m.config.CriticalThreshold != tt.wantCritical {
				t.Errorf("CriticalThreshold = %v, want %v", m.config.CriticalThreshold, tt.wantCritical)
			}
		})
	}
}

func TestMemory_Check(t *testing.T) {
	tests := []struct {
		name      string
		alloc     uint64
		wantUp    bool
		wantLevel any
	}{
		{"normal", 100, true, nil},
		{"warning", 850, true, "warning"},
		{"critical", 960, false, "critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(MemoryConfig{MaxAlloc: 1000})
			m.readStats = func(s *runtime.MemStats) { s.Alloc = tt.alloc }

			s, err := m.Check(context.Background())
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if s.Up() != tt.wantUp {
				t.Errorf("Up() = %v, want %v", s.Up(), tt.wantUp)
			}
			if v, _ := s.Attr("level"); v != tt.wantLevel {
				t.Errorf("level = %v, want %v", v, tt.wantLevel)
			}
		})
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewMemory(MemoryConfig{}).Check(ctx); err == nil {
		t.Error("Check() with cancelled context should fail")
	}
}

func TestMemory_RealStats(t *testing.T) {
	s, err := NewMemory(MemoryConfig{}).Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if s.Name() != "memory" {
		t.Errorf("Name() = %q, want memory", s.Name())
	}
	if _, ok := s.Attr("allocBytes"); !ok {
		t.Error("allocBytes attribute missing")
	}
}
