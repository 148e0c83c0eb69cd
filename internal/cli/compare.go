package cli

import (
	"fmt"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/enclens/enclens/pkg/inspect"
	"github.com/enclens/enclens/pkg/rendition"
)

// newCompareCmd creates the "compare" command.
func newCompareCmd(flags *rootFlags) *cobra.Command {
	var (
		filter   string
		groupBy  string
		diffOnly bool
	)

	cmd := &cobra.Command{
		Use:   "compare <encoding-id>...",
		Short: "Diff rendition fields across one or more encodings",
		Long: `Compare builds one rendition record per muxing and stream pair of every
given encoding, filters them with category:field:value clauses and prints a
field-by-field comparison table.

Filter clauses are comma separated. A two-part clause defaults the category
to codec ("height:1080"); a one-part clause additionally defaults the field
to type ("H264"). Clauses on the same field are alternatives; distinct
fields must all match.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := charmlog.FromContext(ctx)

			client, store, _, err := flags.newClient(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			spinner := newSpinner(ctx, "Collecting renditions")
			spinner.Start()
			set := rendition.NewSet()
			var warnings []error
			for _, encodingID := range args {
				warnings = append(warnings, rendition.Collect(ctx, client, set, encodingID)...)
			}
			spinner.Stop()

			for _, warn := range warnings {
				printWarning("%s", warn)
			}
			if set.Len() == 0 {
				printInfo("No renditions found")
				return nil
			}

			matched, errs := set.Filter(filter)
			for _, err := range errs {
				printWarning("%s", err)
			}
			logger.Debug("filtered renditions", "total", set.Len(), "matched", len(matched))
			if len(matched) == 0 {
				printInfo("No renditions match the filter")
				return nil
			}

			grouped := rendition.NewSet()
			for _, r := range matched {
				grouped.Add(r)
			}
			groups, order, err := grouped.GroupBy(groupBy)
			if err != nil {
				return err
			}

			for _, name := range order {
				printNewline()
				printTitle(fmt.Sprintf("%s (%d)", name, len(groups[name])))
				printComparisonTable(groups[name], diffOnly)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "filter clauses, e.g. \"height:1080,codec:type:H264\"")
	cmd.Flags().StringVar(&groupBy, "group-by", "", "group spec category:field (default "+rendition.DefaultGroupBy+")")
	cmd.Flags().BoolVar(&diffOnly, "diff-only", false, "hide fields with a single distinct value")
	return cmd
}

func printComparisonTable(rends []*rendition.Rendition, diffOnly bool) {
	headers := make([]string, len(rends))
	for i, r := range rends {
		headers[i] = inspect.StreamLabel(r.Codec, r.Stream)
	}
	printDetail("%-30s %s", "", strings.Join(pad(headers, 24), " "))

	for _, row := range rendition.BuildTable(rends, diffOnly) {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			val := cell.Value
			if val == "" {
				val = "-"
			}
			cells[i] = val
		}
		label := fmt.Sprintf("%-10s %-19s", row.Category, row.Field)
		line := strings.Join(pad(cells, 24), " ")
		switch {
		case row.Highlight:
			fmt.Println("  " + StyleHighlight.Render(label) + " " + StyleHighlight.Render(line))
		case row.Diff:
			fmt.Println("  " + StyleValue.Render(label) + " " + styleDiff.Render(line))
		default:
			fmt.Println("  " + StyleDim.Render(label) + " " + StyleValue.Render(line))
		}
	}
}

// pad right-pads every cell to the given width.
func pad(cells []string, width int) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprintf("%-*s", width, c)
	}
	return out
}
