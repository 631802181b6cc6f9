package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrEngineFailure      = errors.New("analysis engine call failed")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrActiveInterview    = errors.New("resume already has an active interview")
	ErrJobDeleted         = errors.New("job was deleted")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid database execution context")
)
