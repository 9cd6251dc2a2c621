package admin

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation matches every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrLeadNotFound is returned when lead_all_info returns no record
	ErrLeadNotFound = errors.New("lead not found")

	// ErrLeadExists is returned when add_lead answers with an empty body
	ErrLeadExists = errors.New("lead already exists")

	// ErrDIDNotFound is returned when no listed DID carries the requested number
	ErrDIDNotFound = errors.New("DID not found")

	// ErrProtectedDID is returned when the default DID is selected for removal
	ErrProtectedDID = errors.New("default DID cannot be removed")
)

// ValidationError rejects an input before or without any remote call.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "value is required"}
	}
	return nil
}

// Phase is one remote step of a credential pair workflow.
type Phase string

const (
	PhaseUser  Phase = "user"
	PhasePhone Phase = "phone"
)

// PhaseError reports which step of a credential pair workflow failed and
// which steps had already been applied remotely.
type PhaseError struct {
	Phase     Phase
	Completed []Phase
	Err       error
}

func (e *PhaseError) Error() string {
	if len(e.Completed) == 0 {
		return fmt.Sprintf("%s step failed: %v", e.Phase, e.Err)
	}
	done := make([]string, len(e.Completed))
	for i, p := range e.Completed {
		done[i] = string(p)
	}
	return fmt.Sprintf("%s step failed after %s succeeded: %v", e.Phase, strings.Join(done, ", "), e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
