package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

// PDFExtractor pulls plain text out of PDF files, page by page.
// Pages that cannot be parsed are skipped rather than failing the document.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrEmptyContent
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeExtractionFailure,
			"failed to parse PDF", err)
	}

	var content strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if content.Len() > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(strings.TrimSpace(text))
	}

	return content.String(), nil
}
