package errors

import (
	stdErrors "errors"
	"fmt"
)

// ParseError represents a structurally invalid remote payload. Field names the
// offending field so skipped records can be diagnosed from logs.
type ParseError struct {
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid payload field %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewParseError creates a ParseError for the given field.
func NewParseError(field, message string) *ParseError {
	return &ParseError{Field: field, Message: message}
}

// IsParseError reports whether err is a ParseError (even when wrapped).
func IsParseError(err error) bool {
	var parseErr *ParseError
	return stdErrors.As(err, &parseErr)
}
