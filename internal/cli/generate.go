// internal/cli/generate.go
package resultviz

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/clram/resultviz/internal/job"
	"github.com/clram/resultviz/internal/tui"
)

var (
	generateInput  string
	generateUseTUI bool
)

var successMark = color.New(color.FgGreen).SprintFunc()
var failureMark = color.New(color.FgRed).SprintFunc()

// generateCmd runs the full pipeline against one input file.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate charts, tables, and an HTML report from a result file",
	Long: `Parse a CSV, JSON, or text-log result file, compute the aggregate
catalogue, and write CSV tables, PNG charts, and a standalone HTML report
into a fresh session directory under the output root.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		runner := job.NewRunner(cfg.OutputDir)

		if generateUseTUI {
			if err := runner.Start(generateInput); err != nil {
				return err
			}
			if err := tui.RunProgress(runner.Status()); err != nil {
				return err
			}
			snapshot := runner.Status().Snapshot()
			if snapshot.Error != "" {
				return fmt.Errorf("%s", snapshot.Error)
			}
			printOutcome(cmd, snapshot)
			return nil
		}

		result, err := runner.Generate(generateInput)
		if err != nil {
			return err
		}

		snapshot := runner.Status().Snapshot()
		printOutcome(cmd, snapshot)
		printSummary(cmd, result)
		return nil
	},
}

func printOutcome(cmd *cobra.Command, snapshot job.Snapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", successMark("✓"), snapshot.Message)
	fmt.Fprintf(out, "Output directory: %s\n", snapshot.OutputDir)
	for _, warning := range snapshot.Warnings {
		fmt.Fprintf(out, "%s %s\n", failureMark("✗"), warning)
	}
}

func printSummary(cmd *cobra.Command, result *job.Result) {
	out := cmd.OutOrStdout()
	summary := result.Catalogue.Summary
	fmt.Fprintf(out, "\nRecords: %d  Models: %d  Categories: %d  Languages: %d\n",
		summary.TotalRecords, summary.ModelCount, summary.CategoryCount, summary.LanguageCount)
	if summary.SuccessRate.Valid {
		fmt.Fprintf(out, "Overall success rate: %s (%d/%d)\n",
			summary.SuccessRate.String(), summary.Successes, summary.Observations)
	}
}

func init() {
	generateCmd.Flags().StringVar(&generateInput, "input", "", "Path to the result file (.csv, .json, or .txt)")
	generateCmd.Flags().BoolVar(&generateUseTUI, "tui", false, "Show a live progress view while generating")
	_ = generateCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(generateCmd)
}
