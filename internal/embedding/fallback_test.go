package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProvider mocks an embedding provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func makeEmbedding(dims int) []float32 {
	embedding := make([]float32, dims)
	for i := range embedding {
		embedding[i] = float32(i) * 0.001
	}
	return embedding
}

func TestFallbackProvider_PrimarySucceeds(t *testing.T) {
	primary := new(MockProvider)
	secondary := new(MockProvider)
	provider := NewFallbackProvider(primary, secondary)

	ctx := context.Background()
	embedding := makeEmbedding(DefaultDimensions)

	primary.On("GenerateEmbedding", ctx, "some legal text").Return(embedding, nil)

	got, err := provider.GenerateEmbedding(ctx, "some legal text")

	assert.NoError(t, err)
	assert.Equal(t, embedding, got)
	primary.AssertExpectations(t)
	secondary.AssertNotCalled(t, "GenerateEmbedding")
}

func TestFallbackProvider_PrimaryFailsSecondarySucceeds(t *testing.T) {
	primary := new(MockProvider)
	secondary := new(MockProvider)
	provider := NewFallbackProvider(primary, secondary)

	ctx := context.Background()
	embedding := makeEmbedding(DefaultDimensions)
	primaryErr := errors.New("rate limit exceeded")

	primary.On("GenerateEmbedding", ctx, "some legal text").Return(nil, primaryErr)
	secondary.On("GenerateEmbedding", ctx, "some legal text").Return(embedding, nil)

	got, err := provider.GenerateEmbedding(ctx, "some legal text")

	assert.NoError(t, err)
	assert.Equal(t, embedding, got)
	primary.AssertExpectations(t)
	secondary.AssertExpectations(t)
}

func TestFallbackProvider_BothFail(t *testing.T) {
	primary := new(MockProvider)
	secondary := new(MockProvider)
	provider := NewFallbackProvider(primary, secondary)

	ctx := context.Background()
	primaryErr := errors.New("rate limit exceeded")
	secondaryErr := errors.New("connection refused")

	primary.On("GenerateEmbedding", ctx, "some legal text").Return(nil, primaryErr)
	secondary.On("GenerateEmbedding", ctx, "some legal text").Return(nil, secondaryErr)

	got, err := provider.GenerateEmbedding(ctx, "some legal text")

	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "all embedding providers failed")
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFallbackProvider_NoSecondary(t *testing.T) {
	primary := new(MockProvider)
	provider := NewFallbackProvider(primary, nil)

	ctx := context.Background()
	primaryErr := errors.New("rate limit exceeded")

	primary.On("GenerateEmbedding", ctx, "some legal text").Return(nil, primaryErr)

	got, err := provider.GenerateEmbedding(ctx, "some legal text")

	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, primaryErr, err)
}
