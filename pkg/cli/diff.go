package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/RamRamez/eliza/pkg/batch"
	"github.com/RamRamez/eliza/pkg/results"
)

// DiffResult holds the comparison between two prompt set runs
type DiffResult struct {
	BaseStats    results.Stats
	HeadStats    results.Stats
	Regressions  []PromptDiff
	Improvements []PromptDiff
	New          []PromptDiff
	Removed      []PromptDiff
}

// PromptDiff holds the diff for a single prompt
type PromptDiff struct {
	Name          string
	BasePassed    bool
	HeadPassed    bool
	FailureReason string
}

// NewDiffCmd creates the diff command
func NewDiffCmd() *cobra.Command {
	var baseFile string
	var currentFile string

	cmd := &cobra.Command{
		Use:   "diff --base <results-file> --current <results-file>",
		Short: "Compare two prompt set results",
		Long: `Compare prompt set results between two runs (e.g., before and after a
prompt or model change). Shows regressions, improvements, and overall pass
rate changes.

Example:
  elizagen diff --base results-main.json --current results-pr.json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseOutcomes, err := results.Load(baseFile)
			if err != nil {
				return fmt.Errorf("failed to load base results: %w", err)
			}

			currentOutcomes, err := results.Load(currentFile)
			if err != nil {
				return fmt.Errorf("failed to load current results: %w", err)
			}

			diff := calculateDiff(baseFile, currentFile, baseOutcomes, currentOutcomes)
			outputTextDiff(diff)

			return nil
		},
	}

	cmd.Flags().StringVar(&baseFile, "base", "", "Base results file")
	cmd.Flags().StringVar(&currentFile, "current", "", "Current results file")

	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("current")

	return cmd
}

func calculateDiff(baseFile, currentFile string, baseOutcomes, currentOutcomes []*batch.Outcome) DiffResult {
	diff := DiffResult{
		BaseStats:    results.CalculateStats(baseFile, baseOutcomes),
		HeadStats:    results.CalculateStats(currentFile, currentOutcomes),
		Regressions:  make([]PromptDiff, 0),
		Improvements: make([]PromptDiff, 0),
		New:          make([]PromptDiff, 0),
		Removed:      make([]PromptDiff, 0),
	}

	baseMap := make(map[string]*batch.Outcome)
	for _, o := range baseOutcomes {
		baseMap[o.Name] = o
	}

	currentMap := make(map[string]*batch.Outcome)
	for _, o := range currentOutcomes {
		currentMap[o.Name] = o
	}

	for _, current := range currentOutcomes {
		base, exists := baseMap[current.Name]
		if !exists {
			diff.New = append(diff.New, PromptDiff{
				Name:       current.Name,
				HeadPassed: current.Success,
			})
			continue
		}

		promptDiff := PromptDiff{
			Name:          current.Name,
			BasePassed:    base.Success,
			HeadPassed:    current.Success,
			FailureReason: current.Error,
		}

		if base.Success && !current.Success {
			diff.Regressions = append(diff.Regressions, promptDiff)
		} else if !base.Success && current.Success {
			diff.Improvements = append(diff.Improvements, promptDiff)
		}
	}

	for _, base := range baseOutcomes {
		if _, exists := currentMap[base.Name]; !exists {
			diff.Removed = append(diff.Removed, PromptDiff{
				Name:       base.Name,
				BasePassed: base.Success,
			})
		}
	}

	return diff
}

func outputTextDiff(diff DiffResult) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)
	bold := color.New(color.Bold)

	_, _ = bold.Println("=== Prompt Set Diff ===")
	fmt.Println()
	fmt.Printf("Base:    %.2f%% (%d/%d)\n",
		diff.BaseStats.PromptPassRate*100, diff.BaseStats.PromptsPassed, diff.BaseStats.PromptsTotal)
	fmt.Printf("Current: %.2f%% (%d/%d)\n",
		diff.HeadStats.PromptPassRate*100, diff.HeadStats.PromptsPassed, diff.HeadStats.PromptsTotal)

	if len(diff.Regressions) > 0 {
		fmt.Println()
		_, _ = red.Printf("Regressions (%d):\n", len(diff.Regressions))
		for _, d := range diff.Regressions {
			if d.FailureReason != "" {
				_, _ = red.Printf("  ✗ %s: %s\n", d.Name, d.FailureReason)
			} else {
				_, _ = red.Printf("  ✗ %s\n", d.Name)
			}
		}
	}

	if len(diff.Improvements) > 0 {
		fmt.Println()
		_, _ = green.Printf("Improvements (%d):\n", len(diff.Improvements))
		for _, d := range diff.Improvements {
			_, _ = green.Printf("  ✓ %s\n", d.Name)
		}
	}

	if len(diff.New) > 0 {
		fmt.Println()
		_, _ = cyan.Printf("New prompts (%d):\n", len(diff.New))
		for _, d := range diff.New {
			_, _ = cyan.Printf("  + %s\n", d.Name)
		}
	}

	if len(diff.Removed) > 0 {
		fmt.Println()
		_, _ = cyan.Printf("Removed prompts (%d):\n", len(diff.Removed))
		for _, d := range diff.Removed {
			_, _ = cyan.Printf("  - %s\n", d.Name)
		}
	}

	fmt.Println()
	if len(diff.Regressions) == 0 {
		_, _ = green.Println("No regressions")
	}
}
