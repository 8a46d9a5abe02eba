package auth

import "context"

// AdminRealm is the reserved administrative realm.
const AdminRealm = "master"

// RealmGate admits only identities bound to a single privileged realm.
//
// Callers without an identity, with an expired identity, or bound to any
// other realm are rejected. Callers are expected to report a rejection the
// same way as a missing resource.
type RealmGate struct {
	realm string
}

// NewRealmGate creates a gate for realm. An empty realm selects AdminRealm.
func NewRealmGate(realm string) *RealmGate {
	if realm == "" {
		realm = AdminRealm
	}
	return &RealmGate{realm: realm}
}

// Realm returns the privileged realm.
func (g *RealmGate) Realm() string {
	return g.realm
}

// Allow reports whether id may pass the gate.
func (g *RealmGate) Allow(id *Identity) bool {
	if id == nil || id.IsExpired() {
		return false
	}
	return id.Realm == g.realm
}

// AllowContext reports whether the identity carried by ctx may pass.
func (g *RealmGate) AllowContext(ctx context.Context) bool {
	return g.Allow(IdentityFromContext(ctx))
}

// Name returns "realm_gate".
func (g *RealmGate) Name() string {
	return "realm_gate"
}

// Authorize implements Authorizer.
func (g *RealmGate) Authorize(_ context.Context, req *AuthzRequest) error {
	if g.Allow(req.Subject) {
		return nil
	}

	subject, reason := "", "no identity provided"
	if req.Subject != nil {
		subject = req.Subject.Principal
		reason = "realm " + req.Subject.Realm + " is not " + g.realm
		if req.Subject.IsExpired() {
			reason = "identity expired"
		}
	}
	return &AuthzError{
		Subject:  subject,
		Resource: req.Resource,
		Action:   req.Action,
		Reason:   reason,
	}
}

var _ Authorizer = (*RealmGate)(nil)
