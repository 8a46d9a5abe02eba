package config

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/healthgate/secret"
)

const redacted = "[REDACTED]"

// SecretResolver builds the resolver described by the secrets section.
func (c *Config) SecretResolver() (*secret.Resolver, error) {
	var configs map[string]map[string]any
	if c.Secrets.FileDir != "" {
		configs = map[string]map[string]any{"file": {"base_dir": c.Secrets.FileDir}}
	}
	return secret.DefaultRegistry().NewResolver(c.Secrets.Strict, c.Secrets.Providers, configs)
}

// Resolve replaces environment references and secretref: values in every
// secret-bearing field. A nil resolver only expands the environment.
func (c *Config) Resolve(ctx context.Context, r *secret.Resolver) error {
	fields := []struct {
		name string
		ptr  *string
	}{
		{"auth.jwt.secret", &c.Auth.JWT.Secret},
		{"auth.jwt.jwks_url", &c.Auth.JWT.JWKSURL},
		{"indicators.database.dsn", &c.Indicators.Database.DSN},
	}
	for _, f := range fields {
		if *f.ptr == "" {
			continue
		}
		v, err := r.ResolveValue(ctx, *f.ptr)
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", f.name, err)
		}
		*f.ptr = v
	}

	for i := range c.Auth.APIKeys {
		v, err := r.ResolveValue(ctx, c.Auth.APIKeys[i].Key)
		if err != nil {
			return fmt.Errorf("config: resolve auth.api_keys[%s]: %w", c.Auth.APIKeys[i].ID, err)
		}
		c.Auth.APIKeys[i].Key = v
	}
	return nil
}

// Redacted returns a copy with every secret-bearing value replaced.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Auth.JWT.Secret != "" {
		out.Auth.JWT.Secret = redacted
	}
	if out.Indicators.Database.DSN != "" {
		out.Indicators.Database.DSN = redacted
	}
	out.Auth.APIKeys = make([]APIKeyConfig, len(c.Auth.APIKeys))
	for i, k := range c.Auth.APIKeys {
		k.Key = redacted
		out.Auth.APIKeys[i] = k
	}
	return &out
}

// YAML renders the redacted configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}
