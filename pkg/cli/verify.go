package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/RamRamez/eliza/pkg/results"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "verify <results-file>",
		Short: "Verify prompt set results meet a pass-rate threshold",
		Long: `Verify that prompt set results meet a minimum pass rate.

Exits with code 0 if the threshold is met, code 1 otherwise.
Use 'elizagen summary' to view detailed results.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes, err := results.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to load results file: %w", err)
			}

			stats := results.CalculateStats(args[0], outcomes)
			passed := thresholdMet(stats, threshold)

			outputVerifyResults(stats, threshold, passed)

			if !passed {
				// silent error (SilenceErrors: true), sets exit code 1
				return fmt.Errorf("threshold not met")
			}

			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "pass-rate", 0.0, "Minimum prompt pass rate (0.0-1.0)")

	return cmd
}

func thresholdMet(stats results.Stats, threshold float64) bool {
	return stats.PromptPassRate >= threshold
}

func outputVerifyResults(stats results.Stats, threshold float64, passed bool) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)

	_, _ = bold.Println("=== Threshold Verification ===")
	fmt.Println()

	if passed {
		_, _ = green.Printf("Prompt Pass Rate: %.2f%% >= %.2f%% ✓\n",
			stats.PromptPassRate*100, threshold*100)
	} else {
		_, _ = red.Printf("Prompt Pass Rate: %.2f%% < %.2f%% ✗\n",
			stats.PromptPassRate*100, threshold*100)
	}

	fmt.Println()
	if passed {
		_, _ = green.Println("Result: PASSED")
	} else {
		_, _ = red.Println("Result: FAILED")
	}
}
