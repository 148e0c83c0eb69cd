package cli

import (
	"fmt"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/enclens/enclens/pkg/format"
	"github.com/enclens/enclens/pkg/inspect"
)

// newInspectCmd creates the "inspect" command.
func newInspectCmd(flags *rootFlags) *cobra.Command {
	var showSources bool

	cmd := &cobra.Command{
		Use:   "inspect <encoding-id>",
		Short: "Walk an encoding and print its resource tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			encodingID := args[0]

			client, store, cfg, err := flags.newClient(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			spinner := newSpinner(ctx, "Inspecting "+encodingID)
			spinner.Start()

			prog := newProgress(charmlog.FromContext(ctx))
			result, err := inspect.NewInspector(client, cfg.Workers).Inspect(ctx, encodingID)
			if err != nil {
				spinner.StopWithError("Inspection failed")
				return err
			}
			spinner.Stop()
			prog.done(fmt.Sprintf("Resolved %d streams, %d muxings, %d manifests",
				len(result.Report.Streams), len(result.Report.Muxings), len(result.Report.Manifests)))

			printReport(result, showSources)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSources, "sources", false, "print playable source URLs with DRM key material")
	return cmd
}

func printReport(result *inspect.Result, showSources bool) {
	rep := result.Report

	printNewline()
	printTitle("Encoding")
	printKeyValue("id", rep.Encoding.ID)
	printKeyValue("name", rep.Encoding.Name)
	printKeyValue("status", rep.Encoding.Status)
	if rep.Encoding.EncoderVersion != "" {
		printKeyValue("encoder", rep.Encoding.EncoderVersion)
	}
	if rep.Encoding.CloudRegion != "" {
		printKeyValue("region", rep.Encoding.CloudRegion)
	}

	if len(rep.Streams) > 0 {
		printNewline()
		printTitle("Streams")
		for _, s := range rep.Streams {
			line := fmt.Sprintf("%-8s %-10s %s", s.Media, s.Codec, s.Label)
			if len(s.Filters) > 0 {
				line += StyleDim.Render(fmt.Sprintf("  +%d filters", len(s.Filters)))
			}
			printDetail("%s", line)
		}
	}

	if len(rep.Muxings) > 0 {
		printNewline()
		printTitle("Muxings")
		for _, m := range rep.Muxings {
			kind := m.MuxingType
			if m.DrmType != "" {
				kind += "+" + m.DrmType
			}
			target := m.URLs.StorageURL
			if target == "" {
				target = m.Host + m.OutputPath
			}
			printDetail("%-16s %s %s", kind, iconArrow, target)
			if m.URLs.StreamingURL != "" {
				printLink("play", m.URLs.StreamingURL)
			}
		}
	}

	if len(rep.Inputs) > 0 {
		printNewline()
		printTitle("Inputs")
		for _, in := range rep.Inputs {
			line := in.Path
			if in.Duration > 0 {
				line += StyleDim.Render(fmt.Sprintf("  %s, %d video / %d audio",
					format.Duration(in.Duration), in.VideoStreams, in.AudioStreams))
			}
			printDetail("%s", line)
		}
	}

	if len(rep.Manifests) > 0 {
		printNewline()
		printTitle("Manifests")
		for _, m := range rep.Manifests {
			printDetail("%-8s %s", m.Type, m.Manifest.FileName())
			if m.URLs.StreamingURL != "" {
				printLink("play", m.URLs.StreamingURL)
			}
		}
	}

	if showSources {
		printNewline()
		printTitle("Player sources")
		for _, src := range result.PlayerSources() {
			printDetail("%-8s %s", src.Type, src.URL)
			for _, key := range src.ClearKeys {
				printDetail("  clearkey %s:%s", key.Kid, key.Key)
			}
		}
	}

	if len(result.Warnings) > 0 {
		printNewline()
		for _, warn := range result.Warnings {
			printWarning("%s", strings.TrimSpace(warn))
		}
	}
}
