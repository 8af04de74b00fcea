// Package api provides the HTTP surface of the matcher.
package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// singleMatchForm is the form payload of POST /match_vaga. Both field names are accepted.
type singleMatchForm struct {
	Descricao   string `form:"descricao"`
	Description string `form:"description"`
}

func (f singleMatchForm) text() string {
	if strings.TrimSpace(f.Descricao) != "" {
		return f.Descricao
	}
	return f.Description
}

// maxDescriptionLength bounds a single ad-hoc description, in bytes.
const maxDescriptionLength = 100_000

// ValidateDescription checks the free-text job description of a single match request.
func ValidateDescription(description string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(description) == "" {
		result.AddError("descricao", "Job description is required")
		return result
	}

	if len(description) > maxDescriptionLength {
		result.AddError("descricao", "Job description is too long")
	}

	return result
}

// BindSingleMatchForm parses the form (urlencoded or multipart) and validates the description.
func BindSingleMatchForm(c *gin.Context) (string, *ValidationResult) {
	var form singleMatchForm
	if err := c.ShouldBind(&form); err != nil {
		result := &ValidationResult{Valid: true}
		result.AddError("form", err.Error())
		return "", result
	}

	description := form.text()
	return description, ValidateDescription(description)
}

// SendValidationError sends a validation error response using the structured format
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
