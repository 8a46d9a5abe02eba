package indicators

import (
	"context"
	"errors"
	"testing"
)

func TestNewFilesystem_Defaults(t *testing.T) {
	f := NewFilesystem(FilesystemConfig{})
	if f.Name() != "filesystem" || f.config.Path != "." || f.config.ThresholdBytes != DefaultFreeBytesThreshold {
		t.Errorf("config = %+v", f.config)
	}
	if ok, _ := f.IsApplicable(context.Background()); !ok {
		t.Error("IsApplicable() = false, want true")
	}
}

func TestFilesystem_Check(t *testing.T) {
	tests := []struct {
		name      string
		free      uint64
		threshold uint64
		wantUp    bool
		wantFree  string
	}{
		{"above threshold", 2 << 30, 1 << 30, true, "2.0 GiB"},
		{"equal is down", 1 << 30, 1 << 30, false, "1.0 GiB"},
		{"below threshold", 500, 1 << 30, false, "500 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilesystem(FilesystemConfig{ThresholdBytes: tt.threshold})
			f.freeBytes = func(string) (uint64, error) { return tt.free, nil }

			s, err := f.Check(context.Background())
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if s.Up() != tt.wantUp {
				t.Errorf("Up() = %v, want %v", s.Up(), tt.wantUp)
			}
			if v, _ := s.Attr("freebytes"); v != tt.free {
				t.Errorf("freebytes = %v, want %d", v, tt.free)
			}
			if v, _ := s.Attr("free"); v != tt.wantFree {
				t.Errorf("free = %v, want %s", v, tt.wantFree)
			}
		})
	}
}

func TestFilesystem_StatError(t *testing.T) {
	f := NewFilesystem(FilesystemConfig{})
	statErr := errors.New("no such file or directory")
	f.freeBytes = func(string) (uint64, error) { return 0, statErr }

	if _, err := f.Check(context.Background()); !errors.Is(err, statErr) {
		t.Errorf("Check() error = %v, want %v", err, statErr)
	}
}

func TestFilesystem_RealPath(t *testing.T) {
	f := NewFilesystem(FilesystemConfig{Path: t.TempDir(), ThresholdBytes: 1})

	s, err := f.Check(context.Background())
	if errors.Is(err, ErrUnsupportedPlatform) {
		t.Skip("statfs not supported on this platform")
	}
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if _, ok := s.Attr("freebytes"); !ok {
		t.Error("freebytes attribute missing")
	}
}
