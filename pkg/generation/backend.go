// Package generation provides resilient, schema-constrained text generation on
// top of a pluggable model backend. It wraps backend calls with exponential
// backoff retries and offers constrained call shapes: enum-constrained values,
// boolean and tri-state decisions, structured objects and arrays, and composite
// multi-decision bundles.
package generation

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
)

// OutputShape selects the kind of output requested from a backend.
type OutputShape string

const (
	ShapeText   OutputShape = "text"
	ShapeEnum   OutputShape = "enum"
	ShapeObject OutputShape = "object"
	ShapeArray  OutputShape = "array"
)

// Request describes a single generation call. The prompt must be non-empty;
// the remaining fields depend on the requested shape.
type Request struct {
	Prompt string
	Shape  OutputShape

	// Schema constrains object-shaped output. Only consulted for ShapeObject.
	Schema *jsonschema.Schema

	// AllowedValues lists the literal tokens an enum-shaped response may
	// take. Only consulted for ShapeEnum.
	AllowedValues []string

	// StopSequences are passed through to the backend to terminate output.
	StopSequences []string

	// ModelConfig carries backend-specific settings (model name, sampling
	// parameters). The generator never inspects it.
	ModelConfig map[string]any
}

// Result is the backend's answer to a Request.
type Result struct {
	Text string

	// Attestation is set by backends that produce verifiable results.
	Attestation *Attestation
}

// Backend turns a prompt into generated output. Implementations are expected
// to be safe for concurrent use; the generator holds no state between calls.
type Backend interface {
	Generate(ctx context.Context, req *Request) (*Result, error)
}
