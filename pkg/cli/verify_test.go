package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RamRamez/eliza/pkg/results"
)

func TestThresholdMet(t *testing.T) {
	tt := map[string]struct {
		passRate  float64
		threshold float64
		expected  bool
	}{
		"above threshold":   {passRate: 0.9, threshold: 0.8, expected: true},
		"exactly threshold": {passRate: 0.8, threshold: 0.8, expected: true},
		"below threshold":   {passRate: 0.5, threshold: 0.8, expected: false},
		"zero threshold":    {passRate: 0.0, threshold: 0.0, expected: true},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			stats := results.Stats{PromptPassRate: tc.passRate}
			assert.Equal(t, tc.expected, thresholdMet(stats, tc.threshold))
		})
	}
}
