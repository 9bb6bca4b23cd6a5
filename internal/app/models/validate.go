package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const MaxDescriptionLength = 1000

// ValidationError reports a Task field that breaks an invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the fields a stored Task must satisfy. Status must already
// be set; defaulting is the caller's job.
func Validate(t Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be blank"}
	}
	if n := utf8.RuneCountInString(t.Description); n > MaxDescriptionLength {
		return &ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("must be at most %d characters, got %d", MaxDescriptionLength, n),
		}
	}
	if t.Status == "" {
		return &ValidationError{Field: "status", Message: "is required"}
	}
	if !t.Status.Valid() {
		return &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("unknown value %q, want one of TODO, IN_PROGRESS, DONE", t.Status),
		}
	}
	return nil
}
