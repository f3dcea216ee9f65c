// Package embedding turns text into fixed-dimension vectors using an
// external embedding model, with a single-fallback policy over a
// secondary HTTP endpoint.
package embedding

import (
	"context"
	"errors"
)

const (
	// DefaultDimensions is the expected embedding vector length. Every
	// vector stored in one corpus must share this dimensionality.
	DefaultDimensions = 1024
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when a provider returns a vector of unexpected length
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when no API key is configured
	ErrNoAPIKey = errors.New("embedding API key not set")
)

// Provider generates a fixed-length embedding vector for a text.
// Implementations must be safe for concurrent use.
type Provider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}
