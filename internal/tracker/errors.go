package tracker

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports an invalid input field. Nothing is written when
// an operation returns one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ParseInt parses a submitted integer field, reporting a ValidationError
// for a missing or malformed value.
func ParseInt(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, invalid(field, "The %s field is required.", humanField(field))
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalid(field, "The %s field must be an integer.", humanField(field))
	}
	return n, nil
}

func humanField(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
