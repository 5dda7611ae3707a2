package enrollment

import "errors"

var (
	// ErrAllocationExhausted means every classroom of the grade is at capacity.
	// It is an expected outcome: the enrollment is declined and nothing is written.
	ErrAllocationExhausted = errors.New("no classroom available for grade")

	ErrDuplicateIdentifier      = errors.New("enrollment identifier already in use")
	ErrInvalidScope             = errors.New("invalid grade or classroom")
	ErrStudentNotFound          = errors.New("student not found")
	ErrImmutableField           = errors.New("field cannot be changed after enrollment")
	ErrInvalidField             = errors.New("invalid field value")
	ErrRemovalNotConfirmed      = errors.New("removal not confirmed")
	ErrIdentifierSpaceExhausted = errors.New("identifier generation exceeded max attempts")
)
