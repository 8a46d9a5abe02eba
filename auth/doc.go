// Package auth authenticates callers of the health endpoints and decides
// whether they may see health information at all.
//
// Callers are identified by a bearer JWT (HMAC secret or realm JWKS) or an
// API key. Each Identity is bound to a realm. Only identities bound to the
// administrative realm pass the RealmGate; everything else, including
// requests without credentials, is rejected.
//
// The package is transport-agnostic apart from Middleware, which lifts the
// identity of an incoming HTTP request into its context.
package auth
