package extract

import (
	"context"
	"net/http"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

// ImageTextReader reads text out of an image. The Gemini vision client
// implements this.
type ImageTextReader interface {
	ExtractImageText(ctx context.Context, imageData []byte, mimeType string) (string, error)
}

// ImageExtractor handles photographed and scanned documents by
// delegating to a vision model.
type ImageExtractor struct {
	reader ImageTextReader
}

func (e *ImageExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrEmptyContent
	}

	mimeType := http.DetectContentType(data)
	text, err := e.reader.ExtractImageText(ctx, data, mimeType)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeExtractionFailure,
			"image text extraction failed", err)
	}
	return text, nil
}
