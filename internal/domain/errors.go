package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinQueryLength is the shortest trimmed query the service accepts.
const MinQueryLength = 2

// ErrInvalidQuery is the sentinel wrapped by every ValidationError.
var ErrInvalidQuery = errors.New("invalid query")

// ValidationError describes a rejected caller query. It is the only error the
// search operation surfaces.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidQuery
}

// ValidateQuery trims the query text and checks it against MinQueryLength.
func ValidateQuery(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ValidationError{Field: "q", Reason: "query is required"}
	}
	if utf8.RuneCountInString(text) < MinQueryLength {
		return "", &ValidationError{Field: "q", Reason: fmt.Sprintf("query must be at least %d characters", MinQueryLength)}
	}
	return text, nil
}
