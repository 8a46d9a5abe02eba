package config

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/jonwraymond/healthgate/auth"
	"github.com/jonwraymond/healthgate/health"
	"github.com/jonwraymond/healthgate/indicators"
	"github.com/jonwraymond/healthgate/resilience"
)

// Authenticator builds the composite authenticator for the auth section.
// It returns nil when neither JWT nor API keys are configured, in which
// case every caller is rejected by the realm gate.
func (c AuthConfig) Authenticator() auth.Authenticator {
	var auths []auth.Authenticator

	if c.JWT.Enabled() {
		jwtCfg := auth.JWTConfig{
			Issuer:       c.JWT.Issuer,
			Audience:     c.JWT.Audience,
			RealmClaim:   c.JWT.RealmClaim,
			RolesClaim:   c.JWT.RolesClaim,
			ValidMethods: c.JWT.Algorithms,
		}
		var keys auth.KeyProvider
		if c.JWT.JWKSURL != "" {
			if len(jwtCfg.ValidMethods) == 0 {
				jwtCfg.ValidMethods = []string{"RS256"}
			}
			keys = auth.NewJWKSKeyProvider(auth.JWKSConfig{URL: c.JWT.JWKSURL})
		} else {
			if len(jwtCfg.ValidMethods) == 0 {
				jwtCfg.ValidMethods = []string{"HS256"}
			}
			keys = auth.NewStaticKeyProvider([]byte(c.JWT.Secret))
		}
		auths = append(auths, auth.NewJWTAuthenticator(jwtCfg, keys))
	}

	if len(c.APIKeys) > 0 {
		store := auth.NewMemoryAPIKeyStore()
		for _, k := range c.APIKeys {
			principal := k.Principal
			if principal == "" {
				principal = k.ID
			}
			store.Add(&auth.APIKeyInfo{
				ID:        k.ID,
				KeyHash:   auth.HashAPIKey(k.Key),
				Principal: principal,
				Realm:     k.Realm,
				Roles:     k.Roles,
			})
		}
		auths = append(auths, auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, store))
	}

	switch len(auths) {
	case 0:
		return nil
	case 1:
		return auths[0]
	default:
		return auth.NewCompositeAuthenticator(auths...)
	}
}

// Gate builds the realm gate.
func (c AuthConfig) Gate() *auth.RealmGate {
	return auth.NewRealmGate(c.Realm)
}

// Build constructs the enabled indicators. The returned closer releases
// their resources, such as database pools.
func (c IndicatorsConfig) Build() ([]health.Indicator, io.Closer, error) {
	var (
		inds    []health.Indicator
		closers closerList
	)

	if c.Database.Enabled {
		db, err := indicators.NewDatabase(indicators.DatabaseConfig{
			Name:           c.Database.Name,
			Driver:         c.Database.Driver,
			DSN:            c.Database.DSN,
			Query:          c.Database.Query,
			ConnectTimeout: c.Database.ConnectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		inds = append(inds, db)
		closers = append(closers, db.Close)
	}

	if c.Filesystem.Enabled {
		threshold, err := c.Filesystem.ThresholdBytes()
		if err != nil {
			_ = closers.Close()
			return nil, nil, err
		}
		inds = append(inds, indicators.NewFilesystem(indicators.FilesystemConfig{
			Name:           c.Filesystem.Name,
			Path:           c.Filesystem.Path,
			ThresholdBytes: threshold,
		}))
	}

	if c.Cluster.Enabled {
		peers := make([]indicators.Peer, 0, len(c.Cluster.Peers))
		for _, p := range c.Cluster.Peers {
			peers = append(peers, indicators.Peer{Name: p.Name, URL: p.URL})
		}
		cc := indicators.ClusterConfig{
			Name:        c.Cluster.Name,
			ClusterName: c.Cluster.ClusterName,
			Peers:       peers,
			Concurrency: c.Cluster.Concurrency,
		}
		if c.Cluster.Timeout > 0 {
			cc.HTTPClient = &http.Client{Timeout: c.Cluster.Timeout}
		}
		if c.Cluster.BreakerFailures > 0 {
			cc.Breakers = resilience.NewBreakerSet(resilience.BreakerConfig{
				MaxFailures:  c.Cluster.BreakerFailures,
				ResetTimeout: c.Cluster.BreakerReset,
			})
		}
		inds = append(inds, indicators.NewCluster(cc))
	}

	if c.Memory.Enabled {
		mc := indicators.MemoryConfig{
			Name:              c.Memory.Name,
			WarningThreshold:  c.Memory.WarningThreshold,
			CriticalThreshold: c.Memory.CriticalThreshold,
		}
		if c.Memory.MaxAlloc != "" {
			n, err := humanize.ParseBytes(c.Memory.MaxAlloc)
			if err != nil {
				_ = closers.Close()
				return nil, nil, fmt.Errorf("config: invalid memory max_alloc %q: %w", c.Memory.MaxAlloc, err)
			}
			mc.MaxAlloc = n
		}
		inds = append(inds, indicators.NewMemory(mc))
	}

	return inds, closers, nil
}

type closerList []func() error

func (c closerList) Close() error {
	var errs []error
	for _, fn := range c {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
