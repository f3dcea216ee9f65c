package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

// DOCXExtractor pulls plain text out of DOCX files. A DOCX is a ZIP
// archive; the document body lives in word/document.xml.
type DOCXExtractor struct{}

func (e *DOCXExtractor) Extract(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrEmptyContent
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeExtractionFailure,
			"failed to open DOCX archive", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", domain.NewDomainErrorWithCause(domain.ErrCodeExtractionFailure,
				"failed to open DOCX body", err)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", domain.NewDomainErrorWithCause(domain.ErrCodeExtractionFailure,
				"failed to read DOCX body", err)
		}

		return parseDocumentXML(content)
	}

	return "", domain.NewDomainError(domain.ErrCodeExtractionFailure,
		"DOCX archive has no word/document.xml")
}

// documentXML represents the structure of word/document.xml
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeExtractionFailure,
			"failed to parse DOCX body", err)
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, t := range r.Text {
				result.WriteString(t.Content)
			}
		}
	}
	return result.String(), nil
}
