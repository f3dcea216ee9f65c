package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

// MockImageTextReader mocks the vision OCR client
type MockImageTextReader struct {
	mock.Mock
}

func (m *MockImageTextReader) ExtractImageText(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	args := m.Called(ctx, imageData, mimeType)
	return args.String(0), args.Error(1)
}

// buildDOCX assembles a minimal DOCX archive with the given paragraphs.
func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestService_Extract_PlainText(t *testing.T) {
	svc := NewService(nil)

	text, err := svc.Extract(context.Background(), "text/plain", []byte("  rental agreement clause 4  "))

	assert.NoError(t, err)
	assert.Equal(t, "rental agreement clause 4", text)
}

func TestService_Extract_PlainTextWithCharset(t *testing.T) {
	svc := NewService(nil)

	text, err := svc.Extract(context.Background(), "text/plain; charset=utf-8", []byte("hello"))

	assert.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestService_Extract_DOCX(t *testing.T) {
	svc := NewService(nil)
	data := buildDOCX(t, "RENTAL AGREEMENT", "The tenant shall pay rent monthly.")

	text, err := svc.Extract(context.Background(), MimeDOCX, data)

	assert.NoError(t, err)
	assert.Equal(t, "RENTAL AGREEMENT\nThe tenant shall pay rent monthly.", text)
}

func TestService_Extract_DOCX_Corrupt(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Extract(context.Background(), MimeDOCX, []byte("not a zip archive"))

	assert.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeExtractionFailure, domainErr.Code)
}

func TestService_Extract_UnsupportedType(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Extract(context.Background(), "application/x-msdownload", []byte{0x4D, 0x5A})

	assert.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUnsupportedType, domainErr.Code)
}

func TestService_Extract_EmptyResult(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Extract(context.Background(), "text/plain", []byte("   \n\t  "))

	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestService_Extract_Image(t *testing.T) {
	ocr := new(MockImageTextReader)
	svc := NewService(ocr)

	// Minimal PNG header so content detection resolves to image/png.
	data := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	ocr.On("ExtractImageText", mock.Anything, data, "image/png").
		Return("NOTICE OF HEARING", nil)

	text, err := svc.Extract(context.Background(), MimePNG, data)

	assert.NoError(t, err)
	assert.Equal(t, "NOTICE OF HEARING", text)
	ocr.AssertExpectations(t)
}

func TestService_Extract_ImageWithoutOCR(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Extract(context.Background(), MimeJPEG, []byte{0xFF, 0xD8})

	assert.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUnsupportedType, domainErr.Code)
}

func TestService_Supported(t *testing.T) {
	svc := NewService(nil)

	assert.True(t, svc.Supported(MimePDF))
	assert.True(t, svc.Supported(MimeDOCX))
	assert.True(t, svc.Supported("text/plain; charset=utf-8"))
	assert.False(t, svc.Supported(MimeJPEG))
	assert.False(t, svc.Supported("application/zip"))
}

func TestTextExtractor_InvalidUTF8(t *testing.T) {
	e := &TextExtractor{}

	_, err := e.Extract(context.Background(), []byte{0xFF, 0xFE, 0xFD})

	assert.Error(t, err)
}
