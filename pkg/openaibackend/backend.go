// Package openaibackend implements generation.Backend over any
// OpenAI-compatible chat completion API.
package openaibackend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/RamRamez/eliza/pkg/generation"
)

// Backend talks to an OpenAI-compatible endpoint.
type Backend struct {
	client *openai.Client
	model  shared.ChatModel
}

var _ generation.Backend = &Backend{}

// New creates a backend for the given endpoint. Both url and apiKey are
// required; an empty model falls back to GPT-4.
func New(url, apiKey, model string) (*Backend, error) {
	if url == "" || apiKey == "" {
		return nil, fmt.Errorf("both url and API key must be provided to create an openai backend")
	}

	var chatModel shared.ChatModel
	if model == "" {
		chatModel = openai.ChatModelGPT4
	} else {
		chatModel = shared.ChatModel(model)
	}

	client := openai.NewClient(
		option.WithBaseURL(url),
		option.WithAPIKey(apiKey),
	)

	return &Backend{
		client: &client,
		model:  chatModel,
	}, nil
}

// NewFromEnv creates a backend from env-var indirected configuration.
func NewFromEnv(cfg *EnvConfig) (*Backend, error) {
	if cfg == nil {
		cfg = DefaultEnvConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return New(cfg.BaseUrl(), cfg.ApiKey(), cfg.ModelName())
}

func (b *Backend) Generate(ctx context.Context, req *generation.Request) (*generation.Result, error) {
	params := openai.ChatCompletionNewParams{
		Model:    b.model,
		Messages: buildMessages(req),
	}

	if model, ok := req.ModelConfig["model"].(string); ok && model != "" {
		params.Model = shared.ChatModel(model)
	}
	if temperature, ok := req.ModelConfig["temperature"].(float64); ok {
		params.Temperature = openai.Float(temperature)
	}

	if len(req.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: req.StopSequences,
		}
	}

	if req.Shape == generation.ShapeObject {
		format, err := responseFormat(req)
		if err != nil {
			return nil, err
		}
		params.ResponseFormat = format
	}

	completion, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned")
	}

	return &generation.Result{Text: completion.Choices[0].Message.Content}, nil
}

// buildMessages shapes the conversation for the requested output kind. Enum
// and array requests get a system instruction because OpenAI-compatible
// endpoints have no native constraint for them.
func buildMessages(req *generation.Request) []openai.ChatCompletionMessageParamUnion {
	messages := []openai.ChatCompletionMessageParamUnion{}

	if instruction := shapeInstruction(req); instruction != "" {
		messages = append(messages, openai.SystemMessage(instruction))
	}

	messages = append(messages, openai.UserMessage(req.Prompt))

	return messages
}

func shapeInstruction(req *generation.Request) string {
	switch req.Shape {
	case generation.ShapeEnum:
		return fmt.Sprintf(
			"Answer with exactly one of the following values and nothing else: %s",
			strings.Join(req.AllowedValues, ", "),
		)
	case generation.ShapeObject:
		return "Respond with a single JSON object and nothing else."
	case generation.ShapeArray:
		return "Respond with a single JSON array and nothing else. Do not wrap it in an object."
	default:
		return ""
	}
}

// responseFormat enables the endpoint's JSON mode for object-shaped requests,
// upgrading to strict schema mode when the request carries a schema.
func responseFormat(req *generation.Request) (openai.ChatCompletionNewParamsResponseFormatUnion, error) {
	if req.Schema == nil {
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}, nil
	}

	raw, err := json.Marshal(req.Schema)
	if err != nil {
		return openai.ChatCompletionNewParamsResponseFormatUnion{}, fmt.Errorf("failed to marshal output schema: %w", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return openai.ChatCompletionNewParamsResponseFormatUnion{}, fmt.Errorf("failed to convert output schema: %w", err)
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
			JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   "structured_output",
				Schema: schema,
			},
		},
	}, nil
}
