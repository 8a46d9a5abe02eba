package endpoint

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jonwraymond/healthgate/auth"
)

func TestGinEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := auth.NewMemoryAPIKeyStore()
	store.Add(&auth.APIKeyInfo{KeyHash: auth.HashAPIKey("admin-key"), Principal: "ops", Realm: auth.AdminRealm})
	authn := auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, store)

	h, _ := newHandler(
		upIndicator("database", "connection", "established"),
		downIndicator("filesystem", "freebytes", 500),
	)
	r := NewGinEngine(h, authn)

	tests := []struct {
		name     string
		path     string
		key      string
		wantCode int
		wantBody string
	}{
		{"aggregate down", "/health/check", "admin-key", http.StatusServiceUnavailable, ""},
		{"named", "/health/check/database", "admin-key", http.StatusOK, `{"up":true,"name":"database","connection":"established"}`},
		{"unknown", "/health/check/cache", "admin-key", http.StatusNotFound, ""},
		{"unauthenticated", "/health/check/database", "", http.StatusNotFound, ""},
		{"live", "/health/live", "", http.StatusOK, "OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body=%s, want %s", w.Body.String(), tt.wantBody)
			}
			if tt.wantCode == http.StatusNotFound && w.Body.Len() != 0 {
				t.Errorf("404 body=%q, want empty", w.Body.String())
			}
		})
	}
}
