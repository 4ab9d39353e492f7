package ai

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing required request field. The field name
// is the wire name (job_title, company, job_description).
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Missing required field: %s", e.Field)
}

// ParseError means the model reply did not contain a parseable JSON object.
// Raw keeps the offending text for diagnostics. Never retried.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse AI response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsParse reports whether err is an unparseable model reply.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
