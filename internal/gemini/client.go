// Package gemini wraps the Google Gemini API for answer synthesis and
// image text extraction.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

const (
	// DefaultModel is the Gemini model used for answer synthesis
	DefaultModel = "gemini-2.0-flash"
	// DefaultVisionModel is the Gemini model used for extracting text from images
	DefaultVisionModel = "gemini-2.0-flash"
)

const ocrPrompt = "Extract all text visible in this image. " +
	"Return only the extracted text, preserving the original reading order. " +
	"If the image contains no readable text, return an empty response."

// GenerateAPI defines the subset of the Gemini API the client depends on
type GenerateAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client wraps the Gemini API client
type Client struct {
	api         GenerateAPI
	model       string
	visionModel string
}

type genaiAdapter struct {
	client *genai.Client
}

func (a *genaiAdapter) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return a.client.Models.GenerateContent(ctx, model, contents, config)
}

type Config struct {
	APIKey      string
	Model       string
	VisionModel string
}

// NewClient creates a new Gemini client using defaults.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	return NewClientWithConfig(ctx, Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new Gemini client with explicit configuration.
func NewClientWithConfig(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrGenerationNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = DefaultVisionModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		api:         &genaiAdapter{client: client},
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
	}, nil
}

// safetySettings blocks medium-and-above content in the categories the
// model moderates. A blocked response surfaces as domain.ErrSafetyBlocked.
func safetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	}
}

// GenerateAnswer synthesizes an answer from the assembled prompt.
// Returns domain.ErrSafetyBlocked when the model refuses on safety grounds.
func (c *Client) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", domain.NewDomainError(domain.ErrCodeValidation, "prompt cannot be empty")
	}

	resp, err := c.api.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SafetySettings: safetySettings(),
		Temperature:    genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return extractText(resp)
}

// ExtractImageText runs the vision model over image bytes and returns the
// text it reads. Scanned notices and photographed documents land here.
func (c *Client) ExtractImageText(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	if len(imageData) == 0 {
		return "", domain.ErrEmptyContent
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(ocrPrompt),
			genai.NewPartFromBytes(imageData, mimeType),
		}, genai.RoleUser),
	}

	resp, err := c.api.GenerateContent(ctx, c.visionModel, contents, &genai.GenerateContentConfig{
		SafetySettings: safetySettings(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini image extraction failed: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason == genai.BlockedReasonSafety {
		return "", domain.ErrSafetyBlocked
	}

	if len(resp.Candidates) == 0 {
		return "", domain.ErrGenerationFailure
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", domain.ErrSafetyBlocked
	}
	if candidate.Content == nil {
		return "", domain.ErrGenerationFailure
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", domain.ErrGenerationFailure
	}

	return sb.String(), nil
}
