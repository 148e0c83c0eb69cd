// Package cli implements the enclens command-line interface.
//
// This package provides commands for inspecting encoding jobs, exporting
// their resource graphs, comparing renditions across encodings, serving the
// inspection HTTP API, and managing the response cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
//   - inspect: Walk an encoding and print its resource tables
//   - graph: Export the resource graph as DOT or SVG
//   - compare: Diff rendition fields across one or more encodings
//   - serve: Run the inspection HTTP API
//   - cache: Manage the HTTP response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/enclens/enclens/internal/config"
	"github.com/enclens/enclens/pkg/buildinfo"
	"github.com/enclens/enclens/pkg/cache"
	"github.com/enclens/enclens/pkg/encodingapi"
	apperr "github.com/enclens/enclens/pkg/errors"
)

// rootFlags are the persistent flags shared by all commands.
type rootFlags struct {
	verbose bool
	profile string
	apiKey  string
	baseURL string
	org     string
	noCache bool
	refresh bool
	workers int
}

// Execute runs the enclens CLI. The context carries cancellation from the
// process signal handler.
func Execute(ctx context.Context) error {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:          "enclens",
		Short:        "Enclens inspects cloud encoding jobs",
		Long:         `Enclens resolves the full resource graph of a video encoding job (streams, codecs, input chains, muxings, DRM, outputs, manifests) and presents it as tables, graphs and rendition comparisons.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if flags.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			cmd.SetContext(charmlog.WithContext(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&flags.profile, "profile", "", "configuration profile to use")
	pf.StringVar(&flags.apiKey, "api-key", "", "API key (overrides ENCLENS_API_KEY)")
	pf.StringVar(&flags.baseURL, "base-url", "", "API base URL")
	pf.StringVar(&flags.org, "org", "", "tenant organization id")
	pf.BoolVar(&flags.noCache, "no-cache", false, "disable the response cache")
	pf.BoolVar(&flags.refresh, "refresh", false, "bypass cached responses, refetch everything")
	pf.IntVar(&flags.workers, "workers", 0, "concurrent API fetches per walk (0 = default)")

	root.AddCommand(newInspectCmd(flags))
	root.AddCommand(newGraphCmd(flags))
	root.AddCommand(newCompareCmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newCacheCmd(flags))

	return root.ExecuteContext(ctx)
}

// loadConfig resolves the configuration and applies flag overrides.
func (f *rootFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.profile)
	if err != nil {
		return nil, err
	}
	if f.apiKey != "" {
		cfg.APIKey = f.apiKey
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.org != "" {
		cfg.TenantOrg = f.org
	}
	if f.noCache {
		cfg.CacheBackend = "none"
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	return cfg, nil
}

// newClient builds the API client from config and flags. The returned cache
// must be closed by the caller.
func (f *rootFlags) newClient(ctx context.Context) (*encodingapi.Client, cache.Cache, *config.Config, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.APIKey == "" {
		return nil, nil, nil, apperr.New(apperr.ErrCodeInvalidInput,
			"no API key configured - pass --api-key, set ENCLENS_API_KEY or add it to a profile")
	}

	store, err := cfg.OpenCache(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	client := encodingapi.NewClient(encodingapi.Config{
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		OrgID:    cfg.TenantOrg,
		Cache:    store,
		CacheTTL: time.Duration(cfg.CacheTTL),
		Refresh:  f.refresh,
	})
	return client, store, cfg, nil
}
