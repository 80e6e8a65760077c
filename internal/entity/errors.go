package entity

import "errors"

// Domain errors
var (
	// Chat boundary errors
	ErrEmptyMessage    = errors.New("message must not be empty")
	ErrMessageTooLong  = errors.New("message exceeds maximum length")
	ErrMissingTenantID = errors.New("tenant id is required")
	ErrMissingUserID   = errors.New("user id is required")

	// Index errors
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrChunkVectorSkew   = errors.New("chunk and vector counts diverged")

	// Agent pool errors
	ErrAgentNotFound = errors.New("agent not found")

	// Ticket errors
	ErrTicketNotFound = errors.New("ticket not found")

	// Generation errors
	ErrNoProviders     = errors.New("no generation providers configured")
	ErrEmptyGeneration = errors.New("provider returned empty response")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
