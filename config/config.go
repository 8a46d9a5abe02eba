package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/jonwraymond/healthgate/auth"
	"github.com/jonwraymond/healthgate/indicators"
	"github.com/jonwraymond/healthgate/observe"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "HEALTHGATE"

// Config is the complete healthgate configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Auth       AuthConfig       `mapstructure:"auth" yaml:"auth"`
	Secrets    SecretsConfig    `mapstructure:"secrets" yaml:"secrets"`
	Observe    ObserveConfig    `mapstructure:"observe" yaml:"observe"`
	Indicators IndicatorsConfig `mapstructure:"indicators" yaml:"indicators"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MetricsPath       string        `mapstructure:"metrics_path" yaml:"metrics_path"`
}

// AuthConfig configures caller authentication and the realm gate.
type AuthConfig struct {
	// Realm is the only realm admitted to the health endpoints.
	Realm   string         `mapstructure:"realm" yaml:"realm"`
	JWT     JWTConfig      `mapstructure:"jwt" yaml:"jwt"`
	APIKeys []APIKeyConfig `mapstructure:"api_keys" yaml:"api_keys"`
}

// JWTConfig configures bearer token validation. Either JWKSURL or Secret
// selects the key source; neither disables JWT authentication.
type JWTConfig struct {
	Issuer     string   `mapstructure:"issuer" yaml:"issuer"`
	Audience   string   `mapstructure:"audience" yaml:"audience"`
	JWKSURL    string   `mapstructure:"jwks_url" yaml:"jwks_url"`
	Secret     string   `mapstructure:"secret" yaml:"secret"`
	RealmClaim string   `mapstructure:"realm_claim" yaml:"realm_claim"`
	RolesClaim string   `mapstructure:"roles_claim" yaml:"roles_claim"`
	Algorithms []string `mapstructure:"algorithms" yaml:"algorithms"`
}

// Enabled reports whether a key source is configured.
func (c JWTConfig) Enabled() bool {
	return c.JWKSURL != "" || c.Secret != ""
}

// APIKeyConfig registers one static API key.
type APIKeyConfig struct {
	ID        string   `mapstructure:"id" yaml:"id"`
	Key       string   `mapstructure:"key" yaml:"key"`
	Principal string   `mapstructure:"principal" yaml:"principal"`
	Realm     string   `mapstructure:"realm" yaml:"realm"`
	Roles     []string `mapstructure:"roles" yaml:"roles"`
}

// SecretsConfig selects the providers available to secretref: values.
type SecretsConfig struct {
	Providers []string `mapstructure:"providers" yaml:"providers"`
	FileDir   string   `mapstructure:"file_dir" yaml:"file_dir"`
	Strict    bool     `mapstructure:"strict" yaml:"strict"`
}

// ObserveConfig configures logging, tracing and metrics.
type ObserveConfig struct {
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	Version     string `mapstructure:"version" yaml:"version"`
	Tracing     struct {
		Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
		Exporter  string  `mapstructure:"exporter" yaml:"exporter"`
		SamplePct float64 `mapstructure:"sample_pct" yaml:"sample_pct"`
	} `mapstructure:"tracing" yaml:"tracing"`
	Metrics struct {
		Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
		Exporter string `mapstructure:"exporter" yaml:"exporter"`
	} `mapstructure:"metrics" yaml:"metrics"`
	Logging struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Level   string `mapstructure:"level" yaml:"level"`
	} `mapstructure:"logging" yaml:"logging"`
}

// IndicatorsConfig configures the built-in indicators.
type IndicatorsConfig struct {
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Filesystem FilesystemConfig `mapstructure:"filesystem" yaml:"filesystem"`
	Cluster    ClusterConfig    `mapstructure:"cluster" yaml:"cluster"`
	Memory     MemoryConfig     `mapstructure:"memory" yaml:"memory"`
}

// DatabaseConfig configures the database indicator. An empty DSN leaves the
// indicator registered but not applicable.
type DatabaseConfig struct {
	Enabled        bool          `mapstructure:"enabled" yaml:"enabled"`
	Name           string        `mapstructure:"name" yaml:"name"`
	Driver         string        `mapstructure:"driver" yaml:"driver"`
	DSN            string        `mapstructure:"dsn" yaml:"dsn"`
	Query          string        `mapstructure:"query" yaml:"query"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
}

// FilesystemConfig configures the filesystem indicator.
type FilesystemConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Name    string `mapstructure:"name" yaml:"name"`
	Path    string `mapstructure:"path" yaml:"path"`

	// Threshold is a size such as "1 GiB" or "500MB".
	Threshold string `mapstructure:"threshold" yaml:"threshold"`
}

// ThresholdBytes parses Threshold.
func (c FilesystemConfig) ThresholdBytes() (uint64, error) {
	if strings.TrimSpace(c.Threshold) == "" {
		return indicators.DefaultFreeBytesThreshold, nil
	}
	n, err := humanize.ParseBytes(c.Threshold)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidThreshold, c.Threshold, err)
	}
	return n, nil
}

// ClusterConfig configures the cluster indicator.
type ClusterConfig struct {
	Enabled     bool          `mapstructure:"enabled" yaml:"enabled"`
	Name        string        `mapstructure:"name" yaml:"name"`
	ClusterName string        `mapstructure:"cluster_name" yaml:"cluster_name"`
	Peers       []PeerConfig  `mapstructure:"peers" yaml:"peers"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// BreakerFailures opens a peer's circuit after that many consecutive
	// failed probes. Zero disables circuit breaking.
	BreakerFailures int           `mapstructure:"breaker_failures" yaml:"breaker_failures"`
	BreakerReset    time.Duration `mapstructure:"breaker_reset" yaml:"breaker_reset"`
}

// PeerConfig names one cluster member.
type PeerConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url" yaml:"url"`
}

// MemoryConfig configures the memory indicator.
type MemoryConfig struct {
	Enabled           bool    `mapstructure:"enabled" yaml:"enabled"`
	Name              string  `mapstructure:"name" yaml:"name"`
	WarningThreshold  float64 `mapstructure:"warning_threshold" yaml:"warning_threshold"`
	CriticalThreshold float64 `mapstructure:"critical_threshold" yaml:"critical_threshold"`
	MaxAlloc          string  `mapstructure:"max_alloc" yaml:"max_alloc"`
}

// setDefaults registers every key so that environment variables can
// override keys absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":9000")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.metrics_path", "/metrics")

	v.SetDefault("auth.realm", auth.AdminRealm)
	v.SetDefault("auth.jwt.issuer", "")
	v.SetDefault("auth.jwt.audience", "")
	v.SetDefault("auth.jwt.jwks_url", "")
	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.realm_claim", "realm")
	v.SetDefault("auth.jwt.roles_claim", "realm_access.roles")
	v.SetDefault("auth.jwt.algorithms", []string{})
	v.SetDefault("auth.api_keys", []map[string]any{})

	v.SetDefault("secrets.providers", []string{"env", "file"})
	v.SetDefault("secrets.file_dir", "")
	v.SetDefault("secrets.strict", true)

	v.SetDefault("observe.service_name", "healthgate")
	v.SetDefault("observe.version", "")
	v.SetDefault("observe.tracing.enabled", false)
	v.SetDefault("observe.tracing.exporter", "none")
	v.SetDefault("observe.tracing.sample_pct", 1.0)
	v.SetDefault("observe.metrics.enabled", true)
	v.SetDefault("observe.metrics.exporter", "prometheus")
	v.SetDefault("observe.logging.enabled", true)
	v.SetDefault("observe.logging.level", "info")

	v.SetDefault("indicators.database.enabled", true)
	v.SetDefault("indicators.database.name", "database")
	v.SetDefault("indicators.database.driver", indicators.DriverPostgres)
	v.SetDefault("indicators.database.dsn", "")
	v.SetDefault("indicators.database.query", "SELECT 1")
	v.SetDefault("indicators.database.connect_timeout", time.Second)

	v.SetDefault("indicators.filesystem.enabled", true)
	v.SetDefault("indicators.filesystem.name", "filesystem")
	v.SetDefault("indicators.filesystem.path", ".")
	v.SetDefault("indicators.filesystem.threshold", "1 GiB")

	v.SetDefault("indicators.cluster.enabled", true)
	v.SetDefault("indicators.cluster.name", "cluster")
	v.SetDefault("indicators.cluster.cluster_name", "")
	v.SetDefault("indicators.cluster.peers", []map[string]any{})
	v.SetDefault("indicators.cluster.concurrency", 8)
	v.SetDefault("indicators.cluster.timeout", 2*time.Second)
	v.SetDefault("indicators.cluster.breaker_failures", 3)
	v.SetDefault("indicators.cluster.breaker_reset", 30*time.Second)

	v.SetDefault("indicators.memory.enabled", false)
	v.SetDefault("indicators.memory.name", "memory")
	v.SetDefault("indicators.memory.warning_threshold", 0.8)
	v.SetDefault("indicators.memory.critical_threshold", 0.95)
	v.SetDefault("indicators.memory.max_alloc", "")
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		// Defaults are static; a failure here is a programming error.
		panic(err)
	}
	return cfg
}

// Load reads the YAML file at path, when non-empty, and applies
// HEALTHGATE_* environment overrides.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, ErrMissingAddr)
	}
	if strings.TrimSpace(c.Auth.Realm) == "" {
		errs = append(errs, ErrMissingRealm)
	}
	if c.Auth.JWT.JWKSURL != "" && c.Auth.JWT.Secret != "" {
		errs = append(errs, ErrConflictingJWTKey)
	}

	seen := make(map[string]bool, len(c.Auth.APIKeys))
	for i, k := range c.Auth.APIKeys {
		if k.ID == "" || k.Key == "" || k.Realm == "" {
			errs = append(errs, fmt.Errorf("%w: api_keys[%d]", ErrInvalidAPIKey, i))
			continue
		}
		if seen[k.ID] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateAPIKey, k.ID))
		}
		seen[k.ID] = true
	}

	if _, err := c.Observe.ToObserve(); err != nil {
		errs = append(errs, err)
	}

	ind := c.Indicators
	if ind.Filesystem.Enabled {
		if _, err := ind.Filesystem.ThresholdBytes(); err != nil {
			errs = append(errs, err)
		}
	}
	if ind.Cluster.Enabled {
		for i, p := range ind.Cluster.Peers {
			if strings.TrimSpace(p.URL) == "" {
				errs = append(errs, fmt.Errorf("%w: peers[%d]", ErrInvalidPeer, i))
			}
		}
	}
	if ind.Memory.Enabled {
		for _, r := range []float64{ind.Memory.WarningThreshold, ind.Memory.CriticalThreshold} {
			if r <= 0 || r >= 1 {
				errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidRatio, r))
				break
			}
		}
		if ind.Memory.MaxAlloc != "" {
			if _, err := humanize.ParseBytes(ind.Memory.MaxAlloc); err != nil {
				errs = append(errs, fmt.Errorf("config: invalid memory max_alloc %q: %w", ind.Memory.MaxAlloc, err))
			}
		}
	}

	return errors.Join(errs...)
}

// ToObserve converts and validates the observability section.
func (c ObserveConfig) ToObserve() (observe.Config, error) {
	cfg := observe.Config{
		ServiceName: c.ServiceName,
		Version:     c.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Tracing.Enabled,
			Exporter:  c.Tracing.Exporter,
			SamplePct: c.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Metrics.Enabled,
			Exporter: c.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Logging.Enabled,
			Level:   c.Logging.Level,
		},
	}
	if err := cfg.Validate(); err != nil {
		return observe.Config{}, err
	}
	return cfg, nil
}
