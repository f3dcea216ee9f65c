// Package extract converts uploaded files into plain text. Each supported
// MIME type has its own extractor; unsupported types are rejected before
// any parsing happens.
package extract

import (
	"context"
	"strings"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

// Supported MIME types
const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText  = "text/plain"
	MimeJPEG  = "image/jpeg"
	MimePNG   = "image/png"
	MimeWebP  = "image/webp"
)

// Extractor converts raw file bytes into plain text
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Service routes extraction by MIME type.
type Service struct {
	extractors map[string]Extractor
}

// NewService builds the extractor registry. ocr handles image types and
// may be nil, in which case image uploads are rejected as unsupported.
func NewService(ocr ImageTextReader) *Service {
	extractors := map[string]Extractor{
		MimePDF:  &PDFExtractor{},
		MimeDOCX: &DOCXExtractor{},
		MimeText: &TextExtractor{},
	}
	if ocr != nil {
		img := &ImageExtractor{reader: ocr}
		extractors[MimeJPEG] = img
		extractors[MimePNG] = img
		extractors[MimeWebP] = img
	}
	return &Service{extractors: extractors}
}

// Supported reports whether the MIME type has a registered extractor.
func (s *Service) Supported(mimeType string) bool {
	_, ok := s.extractors[normalizeMime(mimeType)]
	return ok
}

// Extract converts file bytes to plain text. It returns
// domain.ErrUnsupportedType for unknown MIME types and
// domain.ErrEmptyContent when extraction yields no text.
func (s *Service) Extract(ctx context.Context, mimeType string, data []byte) (string, error) {
	extractor, ok := s.extractors[normalizeMime(mimeType)]
	if !ok {
		return "", domain.NewDomainError(domain.ErrCodeUnsupportedType,
			"unsupported file type: "+mimeType)
	}

	text, err := extractor.Extract(ctx, data)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrEmptyContent
	}
	return text, nil
}

// normalizeMime strips parameters like "; charset=utf-8" and lowercases.
func normalizeMime(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
