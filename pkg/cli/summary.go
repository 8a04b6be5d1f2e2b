// Package cli provides commands for running prompt sets and inspecting their
// results.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RamRamez/eliza/pkg/results"
)

// NewSummaryCmd creates the summary command
func NewSummaryCmd() *cobra.Command {
	var promptFilter string
	var showOutput bool

	cmd := &cobra.Command{
		Use:   "summary <results-file>",
		Short: "Summarize prompt set results from a JSON file",
		Long: `Render the JSON output produced by "elizagen run" in a human-friendly format.

Examples:
  elizagen summary elizagen-smoke-out.json
  elizagen summary --prompt mood --show-output results.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes, err := results.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to load results file: %w", err)
			}

			filtered := results.Filter(outcomes, promptFilter)
			if len(filtered) == 0 {
				if promptFilter == "" {
					return errors.New("no prompts found in results")
				}
				return fmt.Errorf("no prompts matched filter %q", promptFilter)
			}

			displayOutcomes(filtered)

			if showOutput {
				fmt.Println()
				for _, outcome := range filtered {
					if outcome.Output == nil {
						continue
					}
					rendered, err := json.MarshalIndent(outcome.Output, "  ", "  ")
					if err != nil {
						return fmt.Errorf("failed to render output for '%s': %w", outcome.Name, err)
					}
					fmt.Printf("  %s: %s\n", outcome.Name, rendered)
				}
			}

			displayStats(results.CalculateStats(args[0], filtered))

			return nil
		},
	}

	cmd.Flags().StringVar(&promptFilter, "prompt", "", "Only show outcomes for prompts whose name contains this value")
	cmd.Flags().BoolVar(&showOutput, "show-output", false, "Include each prompt's generated output")

	return cmd
}
