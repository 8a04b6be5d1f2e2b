// Package results provides utilities for loading, filtering, and analyzing
// batch generation outcomes.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/RamRamez/eliza/pkg/batch"
)

// Stats holds computed statistics from a batch run.
type Stats struct {
	ResultsFile     string  `json:"resultsFile"`
	PromptsTotal    int     `json:"promptsTotal"`
	PromptsPassed   int     `json:"promptsPassed"`
	PromptPassRate  float64 `json:"promptPassRate"`
	PromptsFailed   int     `json:"promptsFailed"`
	PromptsNoResult int     `json:"promptsNoResult"`
}

// Load reads a JSON results file and returns the parsed outcomes.
func Load(path string) ([]*batch.Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var outcomes []*batch.Outcome
	if err := json.Unmarshal(data, &outcomes); err != nil {
		return nil, fmt.Errorf("failed to parse results JSON: %w", err)
	}

	return outcomes, nil
}

// Filter returns the subset of outcomes whose names contain the filter
// substring.
func Filter(outcomes []*batch.Outcome, filter string) []*batch.Outcome {
	if filter == "" {
		return outcomes
	}

	filter = strings.ToLower(filter)
	filtered := make([]*batch.Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if strings.Contains(strings.ToLower(o.Name), filter) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// CalculateStats computes statistics from batch outcomes. An outcome without
// an error that still failed is counted as "no result" (an undecided
// composite), distinct from a hard failure.
func CalculateStats(resultsFile string, outcomes []*batch.Outcome) Stats {
	stats := Stats{
		ResultsFile:  resultsFile,
		PromptsTotal: len(outcomes),
	}

	for _, outcome := range outcomes {
		switch {
		case outcome.Success:
			stats.PromptsPassed++
		case outcome.Error == "":
			stats.PromptsNoResult++
		default:
			stats.PromptsFailed++
		}
	}

	if stats.PromptsTotal > 0 {
		stats.PromptPassRate = float64(stats.PromptsPassed) / float64(stats.PromptsTotal)
	}

	return stats
}
