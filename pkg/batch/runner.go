package batch

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RamRamez/eliza/pkg/generation"
)

const DefaultConcurrency = 4

// Outcome records the result of one prompt in a set. A prompt that produced
// no decision (nil composite) is recorded as unsuccessful with an empty
// error.
type Outcome struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Output  any    `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Runner executes the prompts of a set concurrently, each through the shared
// generator. Prompts are independent; a failed prompt never aborts the rest.
type Runner struct {
	generator   *generation.Generator
	logger      *zap.Logger
	concurrency int
}

// RunnerConfig assembles a Runner. Generator is required.
type RunnerConfig struct {
	Generator   *generation.Generator
	Logger      *zap.Logger
	Concurrency int
}

func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator must be provided")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	return &Runner{
		generator:   cfg.Generator,
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

// Run executes every prompt in the set and returns one outcome per prompt,
// in the set's order.
func (r *Runner) Run(ctx context.Context, cfg *PromptSetConfig) ([]*Outcome, error) {
	if cfg == nil {
		return nil, fmt.Errorf("prompt set config cannot be nil")
	}

	outcomes := make([]*Outcome, len(cfg.Prompts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	// Each goroutine writes its own slot, so no locking is needed.
	for i := range cfg.Prompts {
		g.Go(func() error {
			outcomes[i] = r.runPrompt(ctx, &cfg.Prompts[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

func (r *Runner) runPrompt(ctx context.Context, spec *PromptSpec) *Outcome {
	r.logger.Debug("running prompt",
		zap.String("name", spec.Name),
		zap.String("type", spec.Type),
	)

	outcome := &Outcome{Name: spec.Name, Type: spec.Type}

	var output any
	var err error

	switch spec.Type {
	case PromptTypeText:
		output, err = r.generator.Text(ctx, spec.Prompt)
	case PromptTypeEnum:
		output, err = r.generator.EnumConstrained(ctx, spec.Prompt, spec.AllowedValues)
	case PromptTypeBoolean:
		output, err = r.generator.Boolean(ctx, spec.Prompt)
	case PromptTypeArray:
		output, err = r.generator.Array(ctx, spec.Prompt)
	case PromptTypeTweet:
		actions := r.generator.GenerateTweetActions(ctx, spec.Prompt)
		if actions == nil {
			// No decision could be made; not a hard failure.
			return outcome
		}
		output = actions
	default:
		err = fmt.Errorf("unknown prompt type '%s'", spec.Type)
	}

	if err != nil {
		r.logger.Warn("prompt failed",
			zap.String("name", spec.Name),
			zap.Error(err),
		)
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Success = true
	outcome.Output = output

	return outcome
}

// SaveOutcomes writes outcomes as indented JSON.
func SaveOutcomes(outcomes []*Outcome) ([]byte, error) {
	data, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outcomes: %w", err)
	}

	return data, nil
}
