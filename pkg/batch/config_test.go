package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/RamRamez/eliza/pkg/generation"
)

func TestPromptSetConfig_Validate(t *testing.T) {
	valid := func() *PromptSetConfig {
		return &PromptSetConfig{
			APIVersion: APIVersionV1Alpha1,
			Kind:       KindPromptSet,
			Metadata:   PromptSetMetadata{Name: "smoke"},
			Prompts: []PromptSpec{
				{Name: "greeting", Type: PromptTypeText, Prompt: "say hi"},
			},
		}
	}

	tt := map[string]struct {
		mutate    func(*PromptSetConfig)
		expectErr bool
	}{
		"valid config": {
			mutate:    func(*PromptSetConfig) {},
			expectErr: false,
		},
		"missing api version is accepted": {
			mutate:    func(c *PromptSetConfig) { c.APIVersion = "" },
			expectErr: false,
		},
		"wrong kind": {
			mutate:    func(c *PromptSetConfig) { c.Kind = "EvalSet" },
			expectErr: true,
		},
		"unknown api version": {
			mutate:    func(c *PromptSetConfig) { c.APIVersion = "eliza/v2" },
			expectErr: true,
		},
		"missing name": {
			mutate:    func(c *PromptSetConfig) { c.Metadata.Name = "" },
			expectErr: true,
		},
		"no prompts": {
			mutate:    func(c *PromptSetConfig) { c.Prompts = nil },
			expectErr: true,
		},
		"duplicate prompt names": {
			mutate: func(c *PromptSetConfig) {
				c.Prompts = append(c.Prompts, PromptSpec{
					Name: "greeting", Type: PromptTypeText, Prompt: "say hi again",
				})
			},
			expectErr: true,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPromptSpec_Validate(t *testing.T) {
	tt := map[string]struct {
		spec      PromptSpec
		expectErr bool
	}{
		"valid text prompt": {
			spec:      PromptSpec{Name: "a", Type: PromptTypeText, Prompt: "p"},
			expectErr: false,
		},
		"valid enum prompt": {
			spec: PromptSpec{
				Name: "a", Type: PromptTypeEnum, Prompt: "p",
				AllowedValues: []string{"x", "y"},
			},
			expectErr: false,
		},
		"enum without allowed values": {
			spec:      PromptSpec{Name: "a", Type: PromptTypeEnum, Prompt: "p"},
			expectErr: true,
		},
		"allowed values on non-enum": {
			spec: PromptSpec{
				Name: "a", Type: PromptTypeBoolean, Prompt: "p",
				AllowedValues: []string{"x"},
			},
			expectErr: true,
		},
		"unknown type": {
			spec:      PromptSpec{Name: "a", Type: "haiku", Prompt: "p"},
			expectErr: true,
		},
		"missing prompt text": {
			spec:      PromptSpec{Name: "a", Type: PromptTypeText},
			expectErr: true,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRetrySettings_Policy(t *testing.T) {
	tt := map[string]struct {
		settings *RetrySettings
		expected generation.RetryPolicy
	}{
		"nil settings use defaults": {
			settings: nil,
			expected: generation.DefaultRetryPolicy(),
		},
		"partial override keeps other defaults": {
			settings: &RetrySettings{MaxAttempts: ptr.To(5)},
			expected: generation.RetryPolicy{
				MaxAttempts:  5,
				InitialDelay: generation.DefaultInitialDelay,
				MaxDelay:     generation.DefaultMaxDelay,
			},
		},
		"full override": {
			settings: &RetrySettings{
				MaxAttempts:    ptr.To(2),
				InitialDelayMs: ptr.To(250),
				MaxDelayMs:     ptr.To(1000),
			},
			expected: generation.RetryPolicy{
				MaxAttempts:  2,
				InitialDelay: 250 * time.Millisecond,
				MaxDelay:     time.Second,
			},
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			policy := tc.settings.Policy()
			assert.Equal(t, tc.expected.MaxAttempts, policy.MaxAttempts)
			assert.Equal(t, tc.expected.InitialDelay, policy.InitialDelay)
			assert.Equal(t, tc.expected.MaxDelay, policy.MaxDelay)
		})
	}
}

func TestFromFile(t *testing.T) {
	content := `apiVersion: eliza/v1alpha1
kind: PromptSet
metadata:
  name: smoke
config:
  retry:
    maxAttempts: 2
prompts:
  - name: greeting
    type: text
    prompt: "Say hi"
  - name: mood
    type: enum
    prompt: "How does this post feel?"
    allowedValues: ["happy", "sad"]
`

	path := filepath.Join(t.TempDir(), "promptset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := FromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "smoke", cfg.Metadata.Name)
	require.Len(t, cfg.Prompts, 2)
	assert.Equal(t, []string{"happy", "sad"}, cfg.Prompts[1].AllowedValues)
	require.NotNil(t, cfg.Config.Retry)
	assert.Equal(t, 2, cfg.Config.Retry.Policy().MaxAttempts)
}

func TestFromFile_InvalidConfig(t *testing.T) {
	content := `kind: SomethingElse
metadata:
  name: bad
prompts: []
`

	path := filepath.Join(t.TempDir(), "promptset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := FromFile(path)

	assert.Error(t, err)
}
