package generation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Attestation is the proof material a verifiable backend attaches to each
// result.
type Attestation struct {
	Proof     string `json:"proof"`
	Signature string `json:"signature"`
}

// Verifier validates the attestation attached to a generation result.
type Verifier interface {
	Verify(ctx context.Context, result *Result) error
}

// VerifiedBackend decorates a Backend so that every result passes
// verification before it reaches the generator. A failed verification
// surfaces as ErrVerificationFailed, which the default retry predicate
// treats as fatal.
type VerifiedBackend struct {
	backend  Backend
	verifier Verifier
	logger   *zap.Logger
}

var _ Backend = &VerifiedBackend{}

func NewVerifiedBackend(backend Backend, verifier Verifier, logger *zap.Logger) (*VerifiedBackend, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend must be provided")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier must be provided")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &VerifiedBackend{
		backend:  backend,
		verifier: verifier,
		logger:   logger,
	}, nil
}

func (b *VerifiedBackend) Generate(ctx context.Context, req *Request) (*Result, error) {
	res, err := b.backend.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := b.verifier.Verify(ctx, res); err != nil {
		b.logger.Error("generation result failed verification", zap.Error(err))
		return nil, errors.Join(ErrVerificationFailed, err)
	}

	return res, nil
}
