package auth

import "net/http"

// Middleware authenticates each request with authn and, on success, stores
// the identity in the request context.
//
// Requests without credentials, with rejected credentials, or whose
// authentication fails internally are passed on without an identity. The
// decision to reject is left to the handler's gate.
//
// Usage:
//
//	mux.Handle("/health/", auth.Middleware(authn, healthHandler))
func Middleware(authn Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := Authenticate(r, authn); id != nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate returns the identity established for r, or nil.
func Authenticate(r *http.Request, authn Authenticator) *Identity {
	if authn == nil {
		return nil
	}
	req := &AuthRequest{Headers: r.Header}
	if !authn.Supports(r.Context(), req) {
		return nil
	}
	result, err := authn.Authenticate(r.Context(), req)
	if err != nil || result == nil || !result.Authenticated {
		return nil
	}
	return result.Identity
}
