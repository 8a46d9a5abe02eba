package endpoint

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonwraymond/healthgate/health"
	"github.com/jonwraymond/healthgate/observe"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		status   health.Status
		ok       bool
		wantCode int
		wantBody string
	}{
		{"absent", health.Status{}, false, http.StatusNotFound, ""},
		{"up", health.Up("database"), true, http.StatusOK, `{"up":true,"name":"database"}`},
		{"down", health.Down("filesystem"), true, http.StatusServiceUnavailable, `{"up":false,"name":"filesystem"}`},
		{
			name:     "unencodable body falls back to summary",
			status:   health.Down("cluster").With("conn", make(chan int)),
			ok:       true,
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"up":false,"name":"cluster"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Render(context.Background(), observe.NopLogger(), tt.status, tt.ok)
			if resp.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", resp.Code, tt.wantCode)
			}
			if string(resp.Body) != tt.wantBody {
				t.Errorf("Body = %s, want %s", resp.Body, tt.wantBody)
			}
		})
	}
}

func TestRender_SerializationFaultIsLoggedGenerically(t *testing.T) {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	resp := Render(context.Background(), logger, health.Down("cluster").With("conn", make(chan int)), true)

	if resp.Code != http.StatusServiceUnavailable {
		t.Errorf("Code = %d, want 503", resp.Code)
	}
	if !strings.Contains(buf.String(), "could not be serialized") {
		t.Errorf("log = %s, want generic warning", buf.String())
	}
}

type panickingLogger struct{ observe.Logger }

func (panickingLogger) Warn(context.Context, string, ...observe.Field) { panic("log sink closed") }

func TestRender_LoggerPanicDoesNotAffectResponse(t *testing.T) {
	resp := Render(context.Background(), panickingLogger{observe.NopLogger()}, health.Down("db"), true)
	if resp.Code != http.StatusServiceUnavailable || string(resp.Body) != `{"up":false,"name":"db"}` {
		t.Errorf("Render() = %d %s", resp.Code, resp.Body)
	}
}

func TestRender_NilLogger(t *testing.T) {
	resp := Render(context.Background(), nil, health.Down("db"), true)
	if resp.Code != http.StatusServiceUnavailable {
		t.Errorf("Code = %d, want 503", resp.Code)
	}
}

func TestResponse_Write(t *testing.T) {
	rec := httptest.NewRecorder()
	Response{Code: http.StatusOK, Body: []byte(`{"up":true}`)}.Write(rec)
	if rec.Header().Get("Content-Type") != ContentType {
		t.Errorf("Content-Type = %q, want %q", rec.Header().Get("Content-Type"), ContentType)
	}

	rec = httptest.NewRecorder()
	NotFound().Write(rec)
	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Errorf("NotFound().Write = %d %q, want 404 with empty body", rec.Code, rec.Body.String())
	}
}
