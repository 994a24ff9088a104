package model

import "github.com/m-mizutani/goerr/v2"

// Error classes surfaced to the HTTP boundary. Wrap them with goerr.Wrap so that
// errors.Is can classify the failure.
var (
	// ErrValidation marks bad, missing, oversized or injection-matched input and malformed user IDs
	ErrValidation = goerr.New("validation error")

	// ErrMemoryOperation marks a failure of the long-term memory service
	ErrMemoryOperation = goerr.New("memory operation failed")

	// ErrCompletion marks a failure of the text generation service
	ErrCompletion = goerr.New("completion failed")
)

// Context keys for error values
const (
	FieldNameKey = "field"
	MaxLengthKey = "max_length"
	UserIDKey    = "user_id"
	OperationKey = "operation"
)
