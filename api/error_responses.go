package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	matchErrors "github.com/gcbaptista/go-job-matcher/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodePayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrorCodeNoJobs           ErrorCode = "NO_JOBS"
	ErrorCodeNoCandidates     ErrorCode = "NO_CANDIDATES"

	// Server Error Codes (5xx)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendReadError reports a failure to read the request payload. Oversized bodies get 413.
func SendReadError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge,
			"Request body exceeds the upload limit")
		return
	}
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
		"Could not read request payload: "+err.Error())
}

// SendMatchError maps a pipeline error onto the HTTP error shape. Internal errors never
// expose their cause to the client.
func SendMatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, matchErrors.ErrNoJobs):
		SendError(c, http.StatusBadRequest, ErrorCodeNoJobs, detailOf(err))
	case errors.Is(err, matchErrors.ErrNoCandidates):
		SendError(c, http.StatusBadRequest, ErrorCodeNoCandidates, detailOf(err))
	case errors.Is(err, matchErrors.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "Internal error during matching")
	}
}

func detailOf(err error) string {
	if matchErr, ok := matchErrors.AsMatchError(err); ok && matchErr.Detail != "" {
		return matchErr.Detail
	}
	return err.Error()
}
