// Package config loads healthgate configuration.
//
// Configuration comes from an optional YAML file and HEALTHGATE_* environment
// variables, layered over defaults:
//
//	server:
//	  addr: ":9000"
//	auth:
//	  realm: master
//	  jwt:
//	    issuer: https://idp.example.com/realms/master
//	    jwks_url: https://idp.example.com/realms/master/protocol/openid-connect/certs
//	  api_keys:
//	    - id: ops
//	      key: secretref:file:/run/secrets/ops-key
//	      realm: master
//	indicators:
//	  database:
//	    dsn: postgres://health:secretref:env:PGPASSWORD@db/keycloak
//	  filesystem:
//	    path: /var/lib/keycloak
//	    threshold: 1 GiB
//
// Nested keys map to environment variables by upper-casing and replacing dots
// with underscores, e.g. HEALTHGATE_INDICATORS_DATABASE_DSN.
//
// Secret-bearing values are resolved by Config.Resolve and must not be
// logged. Use Config.Redacted before printing a configuration.
package config
