package auth

import (
	"context"
	"testing"
)

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()

	if got := IdentityFromContext(ctx); got != nil {
		t.Errorf("IdentityFromContext() on empty context = %v, want nil", got)
	}
	if got := PrincipalFromContext(ctx); got != "" {
		t.Errorf("PrincipalFromContext() = %q, want empty", got)
	}
	if got := RealmFromContext(ctx); got != "" {
		t.Errorf("RealmFromContext() = %q, want empty", got)
	}

	ctx = WithIdentity(ctx, &Identity{Principal: "admin", Realm: "master"})

	if got := PrincipalFromContext(ctx); got != "admin" {
		t.Errorf("PrincipalFromContext() = %q, want admin", got)
	}
	if got := RealmFromContext(ctx); got != "master" {
		t.Errorf("RealmFromContext() = %q, want master", got)
	}
}
