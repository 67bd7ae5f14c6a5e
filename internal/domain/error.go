package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Conversation errors
	ErrThreadBusy     = errors.New("thread already has a run in flight")
	ErrThreadClosed   = errors.New("thread is closed")
	ErrEmptyPrompt    = errors.New("prompt is empty")
	ErrRunFailed      = errors.New("run finished in a failure state")
	ErrRunTimeout     = errors.New("run still pending after poll budget; try again later")
	ErrActionRequired = errors.New("run paused waiting for external action")
	ErrRateLimited    = errors.New("provider rate limit reached")
)
