package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeDialogueError    = "DIALOGUE_ERROR"
	CodeInvalidAttribute = "INVALID_ATTRIBUTE"
	CodeValidation       = "VALIDATION_ERROR"
	CodeCatalog          = "CATALOG_ERROR"
	CodeTranscript       = "TRANSCRIPT_ERROR"
	CodeService          = "SERVICE_ERROR"
)

// ErrInvalidAttribute matches any InvalidAttributeError through errors.Is.
var ErrInvalidAttribute = errors.New("invalid attribute")

type DialogueError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *DialogueError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DialogueError) Unwrap() error {
	return e.Cause
}

func NewDialogueError(message, code string, context map[string]any) *DialogueError {
	return &DialogueError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *DialogueError) WithCause(cause error) *DialogueError {
	e.Cause = cause
	return e
}

// InvalidAttributeError is raised when a catalog or extractor lookup is made
// with a key outside the recognised attribute set. It is a programming error
// and is never recovered inside the dialogue.
type InvalidAttributeError struct {
	*DialogueError
	Attribute string
	Allowed   []string
}

func NewInvalidAttributeError(attribute string, allowed []string) *InvalidAttributeError {
	return &InvalidAttributeError{
		DialogueError: &DialogueError{
			Message: fmt.Sprintf("invalid attribute %q", attribute),
			Code:    CodeInvalidAttribute,
			Context: map[string]any{
				"attribute": attribute,
				"allowed":   allowed,
			},
			Cause: ErrInvalidAttribute,
		},
		Attribute: attribute,
		Allowed:   allowed,
	}
}

type ValidationError struct {
	*DialogueError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		DialogueError: &DialogueError{
			Message: message,
			Code:    CodeValidation,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CatalogError struct {
	*DialogueError
	Source string
}

func NewCatalogError(message, source string, cause error) *CatalogError {
	return &CatalogError{
		DialogueError: &DialogueError{
			Message: message,
			Code:    CodeCatalog,
			Context: map[string]any{
				"source": source,
			},
			Cause: cause,
		},
		Source: source,
	}
}

type TranscriptError struct {
	*DialogueError
	Operation string
	Key       string
}

func NewTranscriptError(message, operation, key string, cause error) *TranscriptError {
	return &TranscriptError{
		DialogueError: &DialogueError{
			Message: message,
			Code:    CodeTranscript,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*DialogueError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		DialogueError: &DialogueError{
			Message: message,
			Code:    CodeService,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}
