package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// InvalidInputError reports bad configuration or coordinates. It is raised
// before any planning work starts.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// IsInvalidInput reports whether err wraps an *InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

type WarningKind string

const (
	WarningUnresolvedRecipient   WarningKind = "unresolved_recipient"
	WarningConvergenceNotReached WarningKind = "convergence_not_reached"
)

// Non-fatal condition attached to a Plan.
type Warning struct {
	Kind        WarningKind
	RecipientID string
	Message     string
}
