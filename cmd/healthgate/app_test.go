package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

const testAPIKey = "k-probe"

func writeTestConfig(t *testing.T, threshold string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "probe-key"), []byte(testAPIKey+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	body := `
auth:
  realm: master
  api_keys:
    - id: probe
      key: secretref:file:probe-key
      realm: master
    - id: tenant
      key: k-tenant
      realm: acme
secrets:
  file_dir: ` + dir + `
observe:
  logging:
    level: error
indicators:
  database:
    driver: sqlite
    dsn: ":memory:"
  filesystem:
    path: ` + dir + `
    threshold: ` + threshold + `
  cluster:
    enabled: false
`
	path := filepath.Join(dir, "healthgate.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestApp(t *testing.T, threshold string) *app {
	t.Helper()
	opts := &rootOptions{configPath: writeTestConfig(t, threshold)}
	cfg, err := opts.load()
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	a, err := newApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(func() { _ = a.close(context.Background()) })
	return a
}

func get(t *testing.T, h http.Handler, path, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestApp_Engine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := newTestApp(t, "1")
	engine := a.engine()

	tests := []struct {
		name     string
		path     string
		apiKey   string
		wantCode int
		wantBody string
	}{
		{"all up", "/health/check", testAPIKey, http.StatusOK, `"database"`},
		{"one", "/health/check/database", testAPIKey, http.StatusOK, `"connection":"established"`},
		{"unknown indicator", "/health/check/cache", testAPIKey, http.StatusNotFound, ""},
		{"anonymous", "/health/check", "", http.StatusNotFound, ""},
		{"wrong realm", "/health/check", "k-tenant", http.StatusNotFound, ""},
		{"bad key", "/health/check", "nope", http.StatusNotFound, ""},
		{"liveness", "/health/live", "", http.StatusOK, "OK"},
		{"metrics", "/metrics", "", http.StatusOK, "health_check"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, engine, tt.path, tt.apiKey)
			if rec.Code != tt.wantCode {
				t.Fatalf("GET %s = %d, want %d (body %q)", tt.path, rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("GET %s body = %q, want it to contain %q", tt.path, rec.Body.String(), tt.wantBody)
			}
			if tt.wantCode == http.StatusNotFound && rec.Body.Len() != 0 {
				t.Errorf("GET %s 404 body = %q, want empty", tt.path, rec.Body.String())
			}
		})
	}
}

func TestApp_EngineDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := newTestApp(t, "1000 PiB")

	rec := get(t, a.engine(), "/health/check", testAPIKey)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /health/check = %d, want 503", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
}

func TestNewApp_UnresolvedSecret(t *testing.T) {
	opts := &rootOptions{configPath: writeTestConfig(t, "1")}
	cfg, err := opts.load()
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	cfg.Indicators.Database.DSN = "secretref:env:HG_TEST_UNSET_DSN"

	if _, err := newApp(context.Background(), cfg); err == nil {
		t.Error("newApp() should fail on an unresolved secret")
	}
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func exitCode(err error) int {
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestCheckCommand(t *testing.T) {
	upCfg := writeTestConfig(t, "1")
	downCfg := writeTestConfig(t, "1000 PiB")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{"all up", []string{"check", "-c", upCfg}, 0, `"filesystem"`},
		{"one up", []string{"check", "database", "-c", upCfg}, 0, `"established"`},
		{"absent", []string{"check", "ldap", "-c", upCfg}, exitAbsent, "no applicable indicators"},
		{"down", []string{"check", "-c", downCfg}, exitDown, `"freebytes"`},
		{"summary", []string{"check", "--summary", "-c", downCfg}, exitDown, "filesystem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runRoot(t, tt.args...)
			if got := exitCode(err); got != tt.wantCode {
				t.Fatalf("exit = %d (err %v), want %d", got, err, tt.wantCode)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want it to contain %q", out, tt.wantOut)
			}
		})
	}
}

func TestConfigCommand(t *testing.T) {
	path := writeTestConfig(t, "1")

	out, err := runRoot(t, "config", "print", "-c", path)
	if err != nil {
		t.Fatalf("config print error = %v", err)
	}
	if !strings.Contains(out, "[REDACTED]") || strings.Contains(out, "k-tenant") {
		t.Errorf("config print output is not redacted:\n%s", out)
	}

	if out, err := runRoot(t, "config", "validate", "-c", path); err != nil || !strings.Contains(out, "ok") {
		t.Errorf("config validate = %q, %v", out, err)
	}

	if _, err := runRoot(t, "config", "validate", "--log-level", "loud", "-c", path); err == nil {
		t.Error("config validate should reject an invalid log level")
	}
}
