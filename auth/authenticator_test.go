package auth

import (
	"context"
	"net/http"
	"testing"
)

func TestAuthRequest_GetHeader(t *testing.T) {
	req := &AuthRequest{Headers: http.Header{"Authorization": {"Bearer a", "Bearer b"}}}

	if got := req.GetHeader("authorization"); got != "Bearer a" {
		t.Errorf("GetHeader() = %q, want first value", got)
	}
	if got := req.GetHeader("X-Missing"); got != "" {
		t.Errorf("GetHeader(missing) = %q, want empty", got)
	}
	if got := (&AuthRequest{}).GetHeader("Authorization"); got != "" {
		t.Errorf("GetHeader() with nil headers = %q, want empty", got)
	}
}

func TestAuthResults(t *testing.T) {
	id := &Identity{Principal: "p", Method: AuthMethodJWT}
	ok := AuthSuccess(id)
	if !ok.Authenticated || ok.Identity != id || ok.Method != "jwt" {
		t.Errorf("AuthSuccess() = %+v", ok)
	}

	fail := AuthFailure(ErrInvalidCredentials, "api_key")
	if fail.Authenticated || fail.Error != ErrInvalidCredentials || fail.Method != "api_key" {
		t.Errorf("AuthFailure() = %+v", fail)
	}
}

func TestAuthenticatorFunc(t *testing.T) {
	a := NewAuthenticatorFunc("static",
		func(context.Context, *AuthRequest) bool { return true },
		func(context.Context, *AuthRequest) (*AuthResult, error) {
			return AuthSuccess(&Identity{Principal: "static", Realm: AdminRealm}), nil
		},
	)

	if a.Name() != "static" {
		t.Errorf("Name() = %q, want static", a.Name())
	}
	if !a.Supports(context.Background(), &AuthRequest{}) {
		t.Error("Supports() = false, want true")
	}
	result, err := a.Authenticate(context.Background(), &AuthRequest{})
	if err != nil || !result.Authenticated || result.Identity.Principal != "static" {
		t.Errorf("Authenticate() = %+v, %v", result, err)
	}
}
