package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/enclens/enclens/pkg/errors"
	"github.com/enclens/enclens/pkg/graph"
	"github.com/enclens/enclens/pkg/inspect"
)

// newGraphCmd creates the "graph" command.
func newGraphCmd(flags *rootFlags) *cobra.Command {
	var (
		output string
		fmtArg string
		show   []string
	)

	cmd := &cobra.Command{
		Use:   "graph <encoding-id>",
		Short: "Export the resource graph as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			encodingID := args[0]

			if fmtArg != "dot" && fmtArg != "svg" {
				return apperr.New(apperr.ErrCodeInvalidFormat, "unknown format %q - use dot or svg", fmtArg)
			}

			client, store, cfg, err := flags.newClient(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			spinner := newSpinner(ctx, "Resolving "+encodingID)
			spinner.Start()
			result, err := inspect.NewInspector(client, cfg.Workers).Inspect(ctx, encodingID)
			if err != nil {
				spinner.StopWithError("Inspection failed")
				return err
			}
			spinner.Stop()

			opts, err := graph.OptionsForGroups(show)
			if err != nil {
				return err
			}
			var data []byte
			switch fmtArg {
			case "dot":
				data = []byte(graph.ToDOT(result.Graph, opts))
			case "svg":
				data, err = graph.RenderSVG(ctx, result.Graph, opts)
				if err != nil {
					return err
				}
			}

			if output == "-" {
				fmt.Print(string(data))
				return nil
			}
			if output == "" {
				output = encodingID + "." + fmtArg
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return apperr.Wrap(apperr.ErrCodeInternal, err, "write %s", output)
			}

			printSuccess("Exported %d nodes, %d edges", result.Graph.NodeCount(), result.Graph.EdgeCount())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file ("-" for stdout, default <encoding-id>.<format>)`)
	cmd.Flags().StringVarP(&fmtArg, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().StringSliceVar(&show, "show", nil,
		"display groups to include: "+strings.Join(graph.GroupNames(), ","))
	return cmd
}
