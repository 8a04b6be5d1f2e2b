package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RamRamez/eliza/pkg/batch"
	"github.com/RamRamez/eliza/pkg/generation"
	"github.com/RamRamez/eliza/pkg/openaibackend"
	"github.com/RamRamez/eliza/pkg/results"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var outputFile string
	var concurrency int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run [prompt-set-file]",
		Short: "Run a prompt set",
		Long: `Run every prompt in the specified prompt-set file against the configured
backend and save the outcomes as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := batch.FromFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to load prompt set: %w", err)
			}

			logger, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			backend, err := openaibackend.NewFromEnv(cfg.Config.Model)
			if err != nil {
				return fmt.Errorf("failed to create backend: %w", err)
			}

			generator, err := generation.New(generation.Config{
				Backend: backend,
				Policy:  cfg.Config.Retry.Policy(),
				Logger:  logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create generator: %w", err)
			}

			runner, err := batch.NewRunner(batch.RunnerConfig{
				Generator:   generator,
				Logger:      logger,
				Concurrency: concurrency,
			})
			if err != nil {
				return fmt.Errorf("failed to create runner: %w", err)
			}

			outcomes, err := runner.Run(context.Background(), cfg)
			if err != nil {
				return fmt.Errorf("prompt set run failed: %w", err)
			}

			if outputFile == "" {
				outputFile = fmt.Sprintf("elizagen-%s-out.json", cfg.Metadata.Name)
			}
			if err := saveOutcomesToFile(outcomes, outputFile); err != nil {
				return fmt.Errorf("failed to save results to file: %w", err)
			}
			fmt.Printf("\n📄 Results saved to: %s\n\n", outputFile)

			displayOutcomes(outcomes)
			displayStats(results.CalculateStats(outputFile, outcomes))

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output-file", "f", "", "Results file to write (default elizagen-<name>-out.json)")
	cmd.Flags().IntVar(&concurrency, "concurrency", batch.DefaultConcurrency, "Maximum prompts running at once")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func saveOutcomesToFile(outcomes []*batch.Outcome, path string) error {
	data, err := batch.SaveOutcomes(outcomes)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func displayOutcomes(outcomes []*batch.Outcome) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	for _, outcome := range outcomes {
		switch {
		case outcome.Success:
			_, _ = green.Printf("  ✓ %s\n", outcome.Name)
		case outcome.Error == "":
			_, _ = yellow.Printf("  ~ %s (no decision)\n", outcome.Name)
		default:
			_, _ = red.Printf("  ✗ %s: %s\n", outcome.Name, outcome.Error)
		}
	}
}

func displayStats(stats results.Stats) {
	bold := color.New(color.Bold)

	fmt.Println()
	_, _ = bold.Println("=== Summary ===")
	fmt.Printf("Prompts:   %d\n", stats.PromptsTotal)
	fmt.Printf("Passed:    %d\n", stats.PromptsPassed)
	fmt.Printf("Failed:    %d\n", stats.PromptsFailed)
	if stats.PromptsNoResult > 0 {
		fmt.Printf("Undecided: %d\n", stats.PromptsNoResult)
	}
	fmt.Printf("Pass Rate: %.2f%%\n", stats.PromptPassRate*100)
}
