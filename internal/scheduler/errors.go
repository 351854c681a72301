package scheduler

import "fmt"

// ValidationError reports a bad identifier or date argument. It aborts
// an assignment before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// MissingConfigurationError reports a required field absent from a
// unit or class document. It aborts an assignment before any mutation.
type MissingConfigurationError struct {
	Doc   string
	Field string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("%s is missing required field %s", e.Doc, e.Field)
}
