// Package secret resolves secret-bearing configuration values.
//
// It supports strict environment expansion (see ExpandEnvStrict) and
// secret references resolved by pluggable providers (see Provider and
// Resolver). References use the prefix "secretref:":
//
//	secretref:env:HEALTHGATE_DB_PASSWORD
//	secretref:file:/run/secrets/jwt-signing-key
//	postgres://health:secretref:env:PGPASSWORD@db/keycloak
//
// Resolved values must never be logged.
package secret
