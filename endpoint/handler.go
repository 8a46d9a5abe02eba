package endpoint

import (
	"context"
	"net/http"

	"github.com/jonwraymond/healthgate/auth"
	"github.com/jonwraymond/healthgate/health"
	"github.com/jonwraymond/healthgate/observe"
)

// Route paths.
const (
	PathCheck     = "/health/check"
	PathCheckOne  = "/health/check/{indicator}"
	PathLive      = "/health/live"
	pathParamName = "indicator"
)

// Checker runs health checks. *health.Aggregator implements it.
type Checker interface {
	CheckAll(ctx context.Context) (health.Status, bool)
	CheckOne(ctx context.Context, name string) (health.Status, bool)
}

// Authorization resources and action.
const (
	ResourceAll    = "health"
	resourcePrefix = "health:"
	ActionCheck    = "check"
)

// Handler serves the health check routes.
//
// Contract:
//   - Concurrency: safe for concurrent use when its Checker is.
//   - Errors: never fails; every outcome is a Response.
type Handler struct {
	checker Checker
	gate    auth.Authorizer
	logger  observe.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithGate replaces the default admin realm gate. Any denial is reported
// as not found.
func WithGate(g auth.Authorizer) Option {
	return func(h *Handler) {
		if g != nil {
			h.gate = g
		}
	}
}

// WithLogger sets the logger used for down statuses.
func WithLogger(l observe.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a Handler. By default only callers bound to
// auth.AdminRealm are allowed and nothing is logged.
func NewHandler(checker Checker, opts ...Option) *Handler {
	h := &Handler{
		checker: checker,
		gate:    auth.NewRealmGate(auth.AdminRealm),
		logger:  observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CheckAll gates the caller and renders the aggregate of all applicable
// indicators.
func (h *Handler) CheckAll(ctx context.Context) Response {
	if !h.allow(ctx, ResourceAll) {
		return NotFound()
	}
	status, ok := h.checker.CheckAll(ctx)
	return Render(ctx, h.logger, status, ok)
}

// CheckOne gates the caller and renders the named indicator.
func (h *Handler) CheckOne(ctx context.Context, name string) Response {
	if !h.allow(ctx, resourcePrefix+name) {
		return NotFound()
	}
	status, ok := h.checker.CheckOne(ctx, name)
	return Render(ctx, h.logger.WithIndicator(name), status, ok)
}

func (h *Handler) allow(ctx context.Context, resource string) bool {
	err := h.gate.Authorize(ctx, &auth.AuthzRequest{
		Subject:  auth.IdentityFromContext(ctx),
		Resource: resource,
		Action:   ActionCheck,
	})
	if err != nil {
		h.logger.Debug(ctx, "health check access denied",
			observe.Field{Key: "authorizer", Value: h.gate.Name()},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return false
	}
	return true
}

// ServeCheckAll serves GET /health/check.
func (h *Handler) ServeCheckAll(w http.ResponseWriter, r *http.Request) {
	h.CheckAll(r.Context()).Write(w)
}

// ServeCheckOne serves GET /health/check/{indicator}.
func (h *Handler) ServeCheckOne(w http.ResponseWriter, r *http.Request) {
	h.CheckOne(r.Context(), r.PathValue(pathParamName)).Write(w)
}

// RegisterHandlers registers the health routes on mux. Identities must
// already be in the request context, e.g. via auth.Middleware.
func (h *Handler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET "+PathCheck, h.ServeCheckAll)
	mux.HandleFunc("GET "+PathCheckOne, h.ServeCheckOne)
	mux.HandleFunc("GET "+PathLive, LivenessHandler())
}

// LivenessHandler reports that the process is serving. It is not gated and
// runs no indicators.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

var (
	_ Checker         = (*health.Aggregator)(nil)
	_ auth.Authorizer = (*auth.RealmGate)(nil)
)
