// Package config resolves the tool configuration from, in increasing
// precedence, the profile file, a .env file and process environment
// variables. Command-line flags override all of it in the cli layer.
package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/enclens/enclens/pkg/cache"
	apperr "github.com/enclens/enclens/pkg/errors"
)

const (
	appName   = "enclens"
	envPrefix = "enclens"

	defaultBaseURL  = "https://api.bitmovin.com/v1"
	defaultCacheTTL = 30 * time.Minute
	defaultListen   = ":8600"
)

// Duration parses "30m"-style strings from both TOML and the environment.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the resolved tool configuration.
type Config struct {
	APIKey    string `envconfig:"API_KEY"    toml:"api_key"`
	BaseURL   string `envconfig:"BASE_URL"   toml:"base_url"`
	TenantOrg string `envconfig:"TENANT_ORG" toml:"tenant_org"`

	// CacheBackend selects the response cache: "file", "redis" or "none".
	CacheBackend string   `envconfig:"CACHE_BACKEND" toml:"cache_backend"`
	CacheDir     string   `envconfig:"CACHE_DIR"     toml:"cache_dir"`
	CacheTTL     Duration `envconfig:"CACHE_TTL"     toml:"cache_ttl"`
	RedisURL     string   `envconfig:"REDIS_URL"     toml:"redis_url"`

	Workers    int    `envconfig:"WORKERS" toml:"workers"`
	ListenAddr string `envconfig:"LISTEN"  toml:"listen"`
}

// profileFile is the on-disk shape of the profile file: a default profile
// name plus named profile sections.
type profileFile struct {
	DefaultProfile string            `toml:"default_profile"`
	Profiles       map[string]Config `toml:"profiles"`
}

// Load resolves the configuration. profile selects a section of the profile
// file; empty means the file's default_profile, or no profile at all.
// Environment variables are prefixed ENCLENS_ (e.g. ENCLENS_API_KEY) and win
// over profile values. A .env file in the working directory is read first.
func Load(profile string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := applyProfile(cfg, profile); err != nil {
		return nil, err
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "parse environment")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "file"
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = Duration(defaultCacheTTL)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListen
	}
	return cfg, nil
}

// ProfilePath returns the location of the profile file. ENCLENS_CONFIG
// overrides the default under the user config directory.
func ProfilePath() (string, error) {
	if p := os.Getenv("ENCLENS_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInternal, err, "resolve config dir")
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

func applyProfile(cfg *Config, profile string) error {
	path, err := ProfilePath()
	if err != nil {
		return err
	}

	var file profileFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if os.IsNotExist(err) {
			if profile != "" {
				return apperr.New(apperr.ErrCodeInvalidInput, "profile %q requested but %s does not exist", profile, path)
			}
			return nil
		}
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read profile file %s", path)
	}

	if profile == "" {
		profile = file.DefaultProfile
	}
	if profile == "" {
		return nil
	}
	section, ok := file.Profiles[profile]
	if !ok {
		return apperr.New(apperr.ErrCodeInvalidInput, "profile %q not found in %s", profile, path)
	}
	*cfg = section
	return nil
}

// DefaultCacheDir returns the response cache directory used when none is
// configured.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInternal, err, "resolve cache dir")
	}
	return filepath.Join(dir, appName), nil
}

// OpenCache builds the response cache selected by CacheBackend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.CacheBackend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, c.RedisURL)
	case "file", "":
		dir := c.CacheDir
		if dir == "" {
			var err error
			if dir, err = DefaultCacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "unknown cache backend %q", c.CacheBackend)
	}
}
