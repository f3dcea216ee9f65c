package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnsupportedType   = "UNSUPPORTED_TYPE"
	ErrCodeEmptyContent      = "EMPTY_CONTENT"
	ErrCodeExtractionFailure = "EXTRACTION_FAILURE"
	ErrCodeEmbeddingFailure  = "EMBEDDING_FAILURE"
	ErrCodeDimensionMismatch = "DIMENSION_MISMATCH"
	ErrCodeStoreFailure      = "STORE_FAILURE"
	ErrCodeSafetyBlocked     = "SAFETY_BLOCKED"
	ErrCodeGenerationFailure = "GENERATION_FAILURE"
	ErrCodeConfiguration     = "CONFIGURATION_ERROR"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidDocumentStatus = NewDomainError(ErrCodeValidation, "invalid document status")
	ErrMissingRequiredField  = NewDomainError(ErrCodeValidation, "missing required field")
	ErrInvalidChunkConfig    = NewDomainError(ErrCodeValidation, "chunk overlap must be smaller than chunk size")
)

// Not found errors
var (
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
)

// Extraction errors
var (
	ErrUnsupportedType   = NewDomainError(ErrCodeUnsupportedType, "unsupported file type")
	ErrEmptyContent      = NewDomainError(ErrCodeEmptyContent, "no extractable text content")
	ErrExtractionFailure = NewDomainError(ErrCodeExtractionFailure, "text extraction failed")
)

// Embedding and retrieval errors
var (
	ErrEmbeddingFailure  = NewDomainError(ErrCodeEmbeddingFailure, "embedding generation failed")
	ErrDimensionMismatch = NewDomainError(ErrCodeDimensionMismatch, "embedding has wrong dimensions")
	ErrStoreFailure      = NewDomainError(ErrCodeStoreFailure, "vector store operation failed")
)

// Generation errors
var (
	ErrSafetyBlocked     = NewDomainError(ErrCodeSafetyBlocked, "response blocked by safety filtering")
	ErrGenerationFailure = NewDomainError(ErrCodeGenerationFailure, "response generation failed")
)

// Configuration errors
var (
	ErrEmbeddingNotConfigured  = NewDomainError(ErrCodeConfiguration, "embedding provider not configured")
	ErrGenerationNotConfigured = NewDomainError(ErrCodeConfiguration, "generative model not configured")
)
