package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"gizietl/internal/dataprocessing"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one invalid request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError carrying details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeMissingUpload    = "MISSING_UPLOAD"
	CodeNotFound         = "NOT_FOUND"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodeETLFailed        = "ETL_FAILED"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeExportFailed     = "EXPORT_FAILED"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// Predefined errors
var (
	ErrInvalidRequest     = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed   = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")
	ErrMissingUpload      = New(http.StatusBadRequest, CodeMissingUpload, "Multipart field \"file\" with an .xlsx workbook is required")
	ErrNotFound           = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrPayloadTooLarge    = New(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Uploaded workbook exceeds the maximum allowed size")
	ErrUnsupportedMedia   = New(http.StatusUnsupportedMediaType, CodeUnsupportedMedia, "Request must be multipart/form-data")
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded")
	ErrInternalServer     = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error for one field
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// NotFoundError creates a not found error for resource
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// ETLFailure is the detail payload of an ETL_FAILED error
type ETLFailure struct {
	Stage string   `json:"stage,omitempty"`
	Hints []string `json:"hints"`
}

// etlHints are the checks an operator should run on a rejected workbook
var etlHints = []string{
	`Pastikan nama sheet adalah "STATUS GIZI"`,
	"Pastikan format tanggal di judul laporan adalah YYYY-MM-DD HH:MM:SS",
	"Pastikan data dimulai dari baris ke-6",
	"Pastikan semua kolom yang diperlukan tersedia",
}

// ETLFailed maps a failed ETL run to 422 with the pipeline message and
// remediation hints. The message carries the same "Error: " text the
// pipeline reports.
func ETLFailed(err error) *APIError {
	failure := ETLFailure{Hints: etlHints}
	if stage, ok := dataprocessing.StageOf(err); ok {
		failure.Stage = string(stage)
	}
	return NewWithDetails(http.StatusUnprocessableEntity, CodeETLFailed, "Error: "+err.Error(), failure)
}

// ExportFailed creates an export error for table
func ExportFailed(table string, err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeExportFailed,
		fmt.Sprintf("Failed to export table %s", table), err.Error())
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates a validation error covering several fields
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errs},
	)
}

// AsAPIError returns the APIError wrapped in err, if any
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
