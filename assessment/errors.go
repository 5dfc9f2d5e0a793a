package assessment

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable is returned by every assessment when the classifier
// artifact could not be loaded at startup
var ErrModelUnavailable = errors.New("risk model is not available")

// InvalidInputError reports a field outside its declared range or option set
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Reason)
}

// ModelContractViolationError reports a label other than 0 or 1
type ModelContractViolationError struct {
	Label int
}

func (e *ModelContractViolationError) Error() string {
	return fmt.Sprintf("model returned unexpected label %d", e.Label)
}

// AssessmentFailedError wraps a classifier failure
type AssessmentFailedError struct {
	Reason string
	Err    error
}

func (e *AssessmentFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assessment failed: %s: %v", e.Reason, e.Err)
	}
	return "assessment failed: " + e.Reason
}

func (e *AssessmentFailedError) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
