package challenge

import "errors"

var (
	// ErrNotFound indicates the challenge id does not resolve to a stored document
	ErrNotFound = errors.New("challenge not found")

	// ErrNotCreator indicates the caller does not own the challenge
	ErrNotCreator = errors.New("caller is not the challenge creator")

	// ErrValidation is wrapped by all invariant violations
	ErrValidation = errors.New("validation failed")

	// ErrSubmissionClosed indicates the challenge is not accepting submissions
	ErrSubmissionClosed = errors.New("challenge is not open for submissions")
)
