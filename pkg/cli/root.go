package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root elizagen command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "elizagen",
		Short: "Resilient structured generation toolkit",
		Long: `elizagen runs prompt sets against an OpenAI-compatible generation backend.
Each prompt is executed with exponential-backoff retries and its output is
optionally constrained to an enumeration, a boolean, an array, or a composite
action bundle.`,
	}

	// Add subcommands
	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewSummaryCmd())
	rootCmd.AddCommand(NewVerifyCmd())
	rootCmd.AddCommand(NewDiffCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
