// Package batch runs a set of named generation requests described by a
// prompt-set file.
package batch

import (
	"errors"
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/RamRamez/eliza/pkg/generation"
	"github.com/RamRamez/eliza/pkg/openaibackend"
)

const (
	APIVersionV1Alpha1 = "eliza/v1alpha1"
	KindPromptSet      = "PromptSet"
)

// Prompt types supported by a prompt set.
const (
	PromptTypeText    = "text"
	PromptTypeEnum    = "enum"
	PromptTypeBoolean = "boolean"
	PromptTypeArray   = "array"
	PromptTypeTweet   = "tweetActions"
)

// PromptSetConfig is the parsed prompt-set file.
type PromptSetConfig struct {
	APIVersion string            `json:"apiVersion,omitempty"`
	Kind       string            `json:"kind"`
	Metadata   PromptSetMetadata `json:"metadata"`
	Config     PromptSetSettings `json:"config,omitempty"`
	Prompts    []PromptSpec      `json:"prompts"`
}

type PromptSetMetadata struct {
	Name string `json:"name"`
}

type PromptSetSettings struct {
	Model *openaibackend.EnvConfig `json:"model,omitempty"`
	Retry *RetrySettings           `json:"retry,omitempty"`
}

// RetrySettings overrides the default retry policy. Unset fields keep their
// defaults.
type RetrySettings struct {
	MaxAttempts    *int `json:"maxAttempts,omitempty"`
	InitialDelayMs *int `json:"initialDelayMs,omitempty"`
	MaxDelayMs     *int `json:"maxDelayMs,omitempty"`
}

// Policy expands the settings into a full retry policy.
func (s *RetrySettings) Policy() generation.RetryPolicy {
	policy := generation.DefaultRetryPolicy()
	if s == nil {
		return policy
	}

	if s.MaxAttempts != nil {
		policy.MaxAttempts = *s.MaxAttempts
	}
	if s.InitialDelayMs != nil {
		policy.InitialDelay = time.Duration(*s.InitialDelayMs) * time.Millisecond
	}
	if s.MaxDelayMs != nil {
		policy.MaxDelay = time.Duration(*s.MaxDelayMs) * time.Millisecond
	}

	return policy
}

// PromptSpec is one named generation request.
type PromptSpec struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Prompt        string   `json:"prompt"`
	AllowedValues []string `json:"allowedValues,omitempty"`
}

func (p *PromptSpec) Validate() error {
	var err error

	if p.Name == "" {
		err = errors.Join(err, fmt.Errorf("prompt name must be specified"))
	}
	if p.Prompt == "" {
		err = errors.Join(err, fmt.Errorf("prompt text must be specified for '%s'", p.Name))
	}

	switch p.Type {
	case PromptTypeEnum:
		if len(p.AllowedValues) == 0 {
			err = errors.Join(err, fmt.Errorf("allowedValues must be specified for enum prompt '%s'", p.Name))
		}
	case PromptTypeText, PromptTypeBoolean, PromptTypeArray, PromptTypeTweet:
		if len(p.AllowedValues) > 0 {
			err = errors.Join(err, fmt.Errorf("allowedValues is only valid for enum prompts, found on '%s'", p.Name))
		}
	default:
		err = errors.Join(err, fmt.Errorf("unknown prompt type '%s' for '%s'", p.Type, p.Name))
	}

	return err
}

func (c *PromptSetConfig) Validate() error {
	var err error

	if c.Kind != KindPromptSet {
		err = errors.Join(err, fmt.Errorf("invalid kind '%s': expected '%s'", c.Kind, KindPromptSet))
	}
	if c.APIVersion != "" && c.APIVersion != APIVersionV1Alpha1 {
		err = errors.Join(err, fmt.Errorf("unknown apiVersion: '%s'", c.APIVersion))
	}
	if c.Metadata.Name == "" {
		err = errors.Join(err, fmt.Errorf("metadata.name must be specified"))
	}
	if len(c.Prompts) == 0 {
		err = errors.Join(err, fmt.Errorf("at least one prompt must be specified"))
	}

	seen := make(map[string]struct{}, len(c.Prompts))
	for i := range c.Prompts {
		p := &c.Prompts[i]
		err = errors.Join(err, p.Validate())
		if _, exists := seen[p.Name]; exists {
			err = errors.Join(err, fmt.Errorf("duplicate prompt name '%s'", p.Name))
		}
		seen[p.Name] = struct{}{}
	}

	return err
}

// FromFile loads and validates a prompt-set file.
func FromFile(path string) (*PromptSetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt set file: %w", err)
	}

	cfg := &PromptSetConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse prompt set file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prompt set: %w", err)
	}

	return cfg, nil
}
