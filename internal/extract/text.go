package extract

import (
	"context"
	"unicode/utf8"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

// TextExtractor handles plain text uploads. The bytes are used as-is
// after a UTF-8 validity check.
type TextExtractor struct{}

func (e *TextExtractor) Extract(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrEmptyContent
	}
	if !utf8.Valid(data) {
		return "", domain.NewDomainError(domain.ErrCodeExtractionFailure,
			"text file is not valid UTF-8")
	}
	return string(data), nil
}
