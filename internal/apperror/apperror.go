// Package apperror holds the two failure kinds the order desk surfaces to its callers.
//
// A ValidationError is local and pre-flight: nothing left the process and the user only has
// to correct the input. A SubmissionError means a remote call failed; local state is left
// untouched so the same action can be retried.
package apperror

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Validation returns a ValidationError with no field attached.
func Validation(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// InvalidField returns a ValidationError for one input field.
func InvalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

type SubmissionError struct {
	Op  string
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func Submission(op string, err error) *SubmissionError {
	return &SubmissionError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsSubmission(err error) bool {
	var s *SubmissionError
	return errors.As(err, &s)
}
