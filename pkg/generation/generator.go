package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"go.uber.org/zap"
)

// Config assembles a Generator. Backend is required; a zero Policy means
// DefaultRetryPolicy and a nil Logger disables logging.
type Config struct {
	Backend Backend
	Policy  RetryPolicy
	Logger  *zap.Logger

	// ModelConfig is passed through opaquely on every backend request.
	ModelConfig map[string]any
}

func (c *Config) Validate() error {
	if c.Backend == nil {
		return fmt.Errorf("backend must be provided")
	}

	return nil
}

// Generator executes generation requests against a Backend with uniform retry
// semantics. It holds no mutable state and is safe for concurrent use.
type Generator struct {
	backend     Backend
	policy      RetryPolicy
	logger      *zap.Logger
	modelConfig map[string]any
}

func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy := cfg.Policy
	if policy.MaxAttempts == 0 && policy.InitialDelay == 0 && policy.MaxDelay == 0 {
		shouldRetry := policy.ShouldRetry
		policy = DefaultRetryPolicy()
		policy.ShouldRetry = shouldRetry
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry policy: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		backend:     cfg.Backend,
		policy:      policy,
		logger:      logger,
		modelConfig: cfg.ModelConfig,
	}, nil
}

// Text generates free-form text for the prompt, retrying transient failures.
func (g *Generator) Text(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating text", zap.String("function", "Text"))

	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyContext
	}

	return ExecuteWithRetry(ctx, g.logger, g.policy, func() (string, error) {
		res, err := g.backend.Generate(ctx, &Request{
			Prompt:      prompt,
			Shape:       ShapeText,
			ModelConfig: g.modelConfig,
		})
		if err != nil {
			return "", err
		}

		return res.Text, nil
	})
}

// EnumConstrained generates exactly one of the allowed values. The backend is
// instructed to answer with a single token; anything that cannot be matched
// against allowed (case-insensitively, after trimming) is a ParseError.
func (g *Generator) EnumConstrained(ctx context.Context, prompt string, allowed []string) (string, error) {
	g.logger.Debug("generating enum constrained value",
		zap.String("function", "EnumConstrained"),
		zap.Strings("allowedValues", allowed),
	)

	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyContext
	}

	if err := validateAllowedValues(allowed); err != nil {
		return "", err
	}

	return ExecuteWithRetry(ctx, g.logger, g.policy, func() (string, error) {
		res, err := g.backend.Generate(ctx, &Request{
			Prompt:        prompt,
			Shape:         ShapeEnum,
			AllowedValues: allowed,
			StopSequences: []string{"\n"},
			ModelConfig:   g.modelConfig,
		})
		if err != nil {
			return "", err
		}

		value, ok := matchAllowedValue(res.Text, allowed)
		if !ok {
			return "", &ParseError{Shape: ShapeEnum, Raw: res.Text}
		}

		return value, nil
	})
}

// Boolean generates a yes/no decision for the prompt.
func (g *Generator) Boolean(ctx context.Context, prompt string) (bool, error) {
	value, err := g.EnumConstrained(ctx, prompt, []string{"true", "false"})
	if err != nil {
		return false, err
	}

	return value == "true", nil
}

// RespondDecision is a tri-state routing decision.
type RespondDecision string

const (
	DecisionRespond RespondDecision = "RESPOND"
	DecisionIgnore  RespondDecision = "IGNORE"
	DecisionStop    RespondDecision = "STOP"
)

// ShouldRespond decides whether to respond to, ignore, or stop engaging with
// the conversation described by the prompt.
func (g *Generator) ShouldRespond(ctx context.Context, prompt string) (RespondDecision, error) {
	value, err := g.EnumConstrained(ctx, prompt, []string{
		string(DecisionRespond),
		string(DecisionIgnore),
		string(DecisionStop),
	})
	if err != nil {
		return "", err
	}

	return RespondDecision(value), nil
}

// Object generates a structured object conforming to schema. The backend is
// called once; output that cannot be interpreted as a JSON object is a
// ParseError.
func (g *Generator) Object(ctx context.Context, prompt string, schema *jsonschema.Schema) (map[string]any, error) {
	g.logger.Debug("generating object", zap.String("function", "Object"))

	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyContext
	}

	res, err := g.backend.Generate(ctx, &Request{
		Prompt:      prompt,
		Shape:       ShapeObject,
		Schema:      schema,
		ModelConfig: g.modelConfig,
	})
	if err != nil {
		g.logger.Error("object generation failed", zap.Error(err))
		return nil, err
	}

	var object map[string]any
	if err := json.Unmarshal([]byte(extractJSON(res.Text)), &object); err != nil {
		return nil, &ParseError{Shape: ShapeObject, Raw: res.Text, Err: err}
	}

	return object, nil
}

// Array generates a JSON array for the prompt, retrying transient backend
// failures. Output that cannot be parsed as an array degrades to an empty
// slice rather than an error.
func (g *Generator) Array(ctx context.Context, prompt string) ([]any, error) {
	g.logger.Debug("generating array", zap.String("function", "Array"))

	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyContext
	}

	res, err := ExecuteWithRetry(ctx, g.logger, g.policy, func() (*Result, error) {
		return g.backend.Generate(ctx, &Request{
			Prompt:      prompt,
			Shape:       ShapeArray,
			ModelConfig: g.modelConfig,
		})
	})
	if err != nil {
		return nil, err
	}

	var items []any
	if err := json.Unmarshal([]byte(extractJSON(res.Text)), &items); err != nil {
		g.logger.Warn("array output could not be parsed, returning empty result",
			zap.String("raw", res.Text),
			zap.Error(err),
		)
		return []any{}, nil
	}

	return items, nil
}

func validateAllowedValues(allowed []string) error {
	if len(allowed) == 0 {
		return fmt.Errorf("allowed values must not be empty")
	}

	seen := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		if _, exists := seen[v]; exists {
			return fmt.Errorf("allowed values must be unique, got '%s' twice", v)
		}
		seen[v] = struct{}{}
	}

	return nil
}

func matchAllowedValue(raw string, allowed []string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, `"'.`)

	for _, v := range allowed {
		if strings.EqualFold(cleaned, v) {
			return v, true
		}
	}

	return "", false
}

// extractJSON strips markdown code fences so fenced backend output still
// parses.
func extractJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if end := strings.LastIndex(cleaned, "```"); end >= 0 {
			cleaned = cleaned[:end]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}
