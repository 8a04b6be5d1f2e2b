package openaibackend

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RamRamez/eliza/pkg/generation"
)

func TestNew(t *testing.T) {
	tt := map[string]struct {
		url       string
		apiKey    string
		expectErr bool
	}{
		"valid":       {url: "http://localhost:8080/v1", apiKey: "key", expectErr: false},
		"missing url": {apiKey: "key", expectErr: true},
		"missing key": {url: "http://localhost:8080/v1", expectErr: true},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			b, err := New(tc.url, tc.apiKey, "")
			if tc.expectErr {
				assert.Error(t, err)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, b)
		})
	}
}

func TestEnvConfig_Validate(t *testing.T) {
	tt := map[string]struct {
		cfg       *EnvConfig
		expectErr bool
	}{
		"default config": {
			cfg:       DefaultEnvConfig(),
			expectErr: false,
		},
		"missing base url key": {
			cfg:       &EnvConfig{ApiKeyKey: "K", ModelNameKey: "M"},
			expectErr: true,
		},
		"missing api key key": {
			cfg:       &EnvConfig{BaseUrlKey: "B", ModelNameKey: "M"},
			expectErr: true,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEnvConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("TEST_MODEL_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("TEST_MODEL_KEY", "secret")
	t.Setenv("TEST_MODEL_NAME", "test-model")

	cfg := &EnvConfig{
		BaseUrlKey:   "TEST_MODEL_BASE_URL",
		ApiKeyKey:    "TEST_MODEL_KEY",
		ModelNameKey: "TEST_MODEL_NAME",
	}

	assert.Equal(t, "http://localhost:9999/v1", cfg.BaseUrl())
	assert.Equal(t, "secret", cfg.ApiKey())
	assert.Equal(t, "test-model", cfg.ModelName())
}

func TestShapeInstruction(t *testing.T) {
	tt := map[string]struct {
		req      *generation.Request
		expected string
	}{
		"text has no instruction": {
			req:      &generation.Request{Shape: generation.ShapeText},
			expected: "",
		},
		"enum lists allowed values": {
			req: &generation.Request{
				Shape:         generation.ShapeEnum,
				AllowedValues: []string{"RESPOND", "IGNORE", "STOP"},
			},
			expected: "Answer with exactly one of the following values and nothing else: RESPOND, IGNORE, STOP",
		},
		"object asks for json object": {
			req:      &generation.Request{Shape: generation.ShapeObject},
			expected: "Respond with a single JSON object and nothing else.",
		},
		"array asks for json array": {
			req:      &generation.Request{Shape: generation.ShapeArray},
			expected: "Respond with a single JSON array and nothing else. Do not wrap it in an object.",
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, shapeInstruction(tc.req))
		})
	}
}

func TestBuildMessages(t *testing.T) {
	req := &generation.Request{
		Prompt:        "pick one",
		Shape:         generation.ShapeEnum,
		AllowedValues: []string{"true", "false"},
	}

	messages := buildMessages(req)

	// System instruction plus the user prompt.
	assert.Len(t, messages, 2)
}

func TestResponseFormat(t *testing.T) {
	t.Run("without schema uses json object mode", func(t *testing.T) {
		format, err := responseFormat(&generation.Request{Shape: generation.ShapeObject})
		require.NoError(t, err)
		assert.NotNil(t, format.OfJSONObject)
		assert.Nil(t, format.OfJSONSchema)
	})

	t.Run("with schema uses strict schema mode", func(t *testing.T) {
		schema := &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"name": {Type: "string"},
			},
		}

		format, err := responseFormat(&generation.Request{
			Shape:  generation.ShapeObject,
			Schema: schema,
		})
		require.NoError(t, err)
		require.NotNil(t, format.OfJSONSchema)
		assert.Equal(t, "structured_output", format.OfJSONSchema.JSONSchema.Name)
	})
}
