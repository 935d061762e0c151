package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts validator errors to user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var result []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			result = append(result, ValidationError{
				Field:   jsonFieldName(fieldError),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return result
}

// jsonFieldName lowercases the struct field so it matches the JSON key
func jsonFieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

func getErrorMessage(fe validator.FieldError) string {
	field := jsonFieldName(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must not exceed " + fe.Param() + " characters"
	default:
		return field + " is invalid"
	}
}
