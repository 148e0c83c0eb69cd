package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	apperr "github.com/enclens/enclens/pkg/errors"
)

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("ENCLENS_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	isolateConfig(t)
	t.Setenv("ENCLENS_API_KEY", "env-key")
	t.Setenv("ENCLENS_BASE_URL", "https://env.example/v1")

	flags := &rootFlags{apiKey: "flag-key", noCache: true}
	cfg, err := flags.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIKey != "flag-key" {
		t.Errorf("APIKey = %q, flag should win over env", cfg.APIKey)
	}
	if cfg.BaseURL != "https://env.example/v1" {
		t.Errorf("BaseURL = %q, want env value", cfg.BaseURL)
	}
	if cfg.CacheBackend != "none" {
		t.Errorf("CacheBackend = %q, --no-cache should disable caching", cfg.CacheBackend)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	isolateConfig(t)
	t.Setenv("ENCLENS_API_KEY", "")

	flags := &rootFlags{}
	_, _, _, err := flags.newClient(context.Background())
	if err == nil {
		t.Fatal("missing API key should fail")
	}
	if apperr.GetCode(err) != apperr.ErrCodeInvalidInput {
		t.Errorf("code = %s", apperr.GetCode(err))
	}
}

func TestCacheClear(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	t.Setenv("ENCLENS_CACHE_DIR", dir)

	sub := filepath.Join(dir, "ab")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{filepath.Join(dir, "one"), filepath.Join(sub, "two")} {
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cmd := newCacheClearCmd(&rootFlags{})
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir not emptied: %v", entries)
	}
}

func TestCacheDirPrefersConfigured(t *testing.T) {
	isolateConfig(t)
	t.Setenv("ENCLENS_CACHE_DIR", "/tmp/enclens-test-cache")

	dir, err := cacheDir(&rootFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/enclens-test-cache" {
		t.Errorf("dir = %q", dir)
	}
}
