// internal/cli/inspect.go
package resultviz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/clram/resultviz/internal/results"
	"github.com/clram/resultviz/internal/stats"
	"github.com/clram/resultviz/internal/util"
)

var inspectInput string

var (
	inspectHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	inspectLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// inspectCmd parses and normalizes a result file without generating any
// output files, then prints what the pipeline would work with.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Parse a result file and show the canonical table summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := results.LoadTable(inspectInput)
		if err != nil {
			return err
		}

		catalogue, report := stats.Compute(table)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, inspectHeaderStyle.Render(fmt.Sprintf("Canonical table: %d records", len(table))))
		summary := catalogue.Summary
		fmt.Fprintf(out, "%s %d models, %d categories, %d languages\n",
			inspectLabelStyle.Render("Distinct:"), summary.ModelCount, summary.CategoryCount, summary.LanguageCount)
		if summary.SuccessRate.Valid {
			fmt.Fprintf(out, "%s %s (%d/%d observations)\n",
				inspectLabelStyle.Render("Success rate:"), summary.SuccessRate.String(), summary.Successes, summary.Observations)
		} else {
			fmt.Fprintf(out, "%s no success observations\n", inspectLabelStyle.Render("Success rate:"))
		}

		fmt.Fprintln(out, inspectHeaderStyle.Render("\nPer-category"))
		for _, category := range catalogue.Categories {
			fmt.Fprintf(out, "  %-24s count=%-5d rate=%s\n",
				util.TruncateRunes(category.Category, 24), category.Count, category.SuccessRate.String())
		}

		if failed := report.Failed(); len(failed) > 0 {
			fmt.Fprintln(out, inspectHeaderStyle.Render("\nAggregate failures"))
			for _, stage := range failed {
				fmt.Fprintf(out, "  %s: %s\n", stage.Name, stage.Error)
			}
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectInput, "input", "", "Path to the result file (.csv, .json, or .txt)")
	_ = inspectCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(inspectCmd)
}
