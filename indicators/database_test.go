package indicators

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonwraymond/healthgate/health"
)

func newSQLiteIndicator(t *testing.T, dsn, query string) *Database {
	t.Helper()
	d, err := NewDatabase(DatabaseConfig{Driver: DriverSQLite, DSN: dsn, Query: query})
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestDefaultDatabaseConfig(t *testing.T) {
	cfg := DefaultDatabaseConfig()
	if cfg.Query != "SELECT 1" || cfg.ConnectTimeout != time.Second || cfg.Driver != DriverPostgres {
		t.Errorf("DefaultDatabaseConfig() = %+v", cfg)
	}
}

func TestNewDatabase(t *testing.T) {
	if _, err := NewDatabase(DatabaseConfig{Driver: "oracle", DSN: "x"}); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("NewDatabase(oracle) error = %v, want ErrUnknownDriver", err)
	}

	d, err := NewDatabase(DatabaseConfig{})
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	if d.Name() != "database" {
		t.Errorf("Name() = %q, want database", d.Name())
	}
	if ok, _ := d.IsApplicable(context.Background()); ok {
		t.Error("IsApplicable() = true without DSN")
	}
	if _, err := d.Check(context.Background()); !errors.Is(err, ErrMissingDSN) {
		t.Errorf("Check() error = %v, want ErrMissingDSN", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestDatabase_Check(t *testing.T) {
	missing := "file:" + filepath.Join(t.TempDir(), "missing", "db.sqlite") + "?mode=ro"

	tests := []struct {
		name           string
		dsn            string
		query          string
		wantUp         bool
		wantConnection any
		wantMessage    bool
	}{
		{"query ok", ":memory:", "SELECT 1", true, "established", false},
		{"ping ok", ":memory:", "  ", true, "established", false},
		{"invalid query", ":memory:", "SELEC 1", false, nil, false},
		{"unreachable", missing, "SELECT 1", false, "error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newSQLiteIndicator(t, tt.dsn, tt.query)

			if ok, _ := d.IsApplicable(context.Background()); !ok {
				t.Fatal("IsApplicable() = false with DSN")
			}

			s, err := d.Check(context.Background())
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if s.Up() != tt.wantUp {
				t.Errorf("Up() = %v, want %v (%v)", s.Up(), tt.wantUp, s.Attributes())
			}
			conn, _ := s.Attr("connection")
			if conn != tt.wantConnection {
				t.Errorf("connection = %v, want %v", conn, tt.wantConnection)
			}
			msg, hasMsg := s.Attr(health.AttrMessage)
			if hasMsg != tt.wantMessage {
				t.Errorf("message = %v, want present=%v", msg, tt.wantMessage)
			}
		})
	}
}

func TestDatabase_GuardedAggregate(t *testing.T) {
	db := newSQLiteIndicator(t, ":memory:", "SELECT 1")

	s, ok := health.CheckAll(context.Background(), []health.Indicator{db})
	if !ok || !s.Up() || s.Name() != "database" {
		t.Errorf("CheckAll() = %v, %v, want database:up", s, ok)
	}
}

func TestNewDatabaseFromDB(t *testing.T) {
	src := newSQLiteIndicator(t, ":memory:", "")
	d := NewDatabaseFromDB("", src.db, "SELECT 1")

	if d.Name() != "database" {
		t.Errorf("Name() = %q, want database", d.Name())
	}
	s, err := d.Check(context.Background())
	if err != nil || !s.Up() {
		t.Errorf("Check() = %v, %v", s, err)
	}
}
