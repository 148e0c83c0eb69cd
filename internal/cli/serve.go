package cli

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/enclens/enclens/internal/server"
)

// newServeCmd creates the "serve" command.
func newServeCmd(flags *rootFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the inspection HTTP API",
		Long: `Serve exposes inspection reports, resource graphs and rendition
comparisons over HTTP, plus Prometheus metrics on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, store, cfg, err := flags.newClient(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			addr := listen
			if addr == "" {
				addr = cfg.ListenAddr
			}

			level := charmlog.InfoLevel
			if flags.verbose {
				level = charmlog.DebugLevel
			}
			srv := server.New(client, cfg.Workers, newLogger(os.Stderr, level))
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8600)")
	return cmd
}
