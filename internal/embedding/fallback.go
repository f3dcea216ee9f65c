package embedding

import (
	"context"
	"fmt"
	"log"
)

// FallbackProvider tries the primary provider first and, on any failure,
// retries once against the secondary. The secondary is never consulted
// when the primary succeeds, and its failure is reported together with
// the primary's.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
}

// NewFallbackProvider composes a primary and secondary provider.
// secondary may be nil, in which case primary errors pass through.
func NewFallbackProvider(primary, secondary Provider) *FallbackProvider {
	return &FallbackProvider{
		primary:   primary,
		secondary: secondary,
	}
}

// GenerateEmbedding implements the single-fallback policy.
func (p *FallbackProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	embedding, primaryErr := p.primary.GenerateEmbedding(ctx, text)
	if primaryErr == nil {
		return embedding, nil
	}

	if p.secondary == nil {
		return nil, primaryErr
	}

	log.Printf("Primary embedding provider failed, trying fallback: %v", primaryErr)

	embedding, secondaryErr := p.secondary.GenerateEmbedding(ctx, text)
	if secondaryErr != nil {
		return nil, fmt.Errorf("all embedding providers failed: primary: %v; fallback: %w", primaryErr, secondaryErr)
	}

	return embedding, nil
}
