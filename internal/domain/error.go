package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrCorruptData      = errors.New("stored data is corrupt")
	ErrStorage          = errors.New("storage failure")
	ErrBrokenChain      = errors.New("message chain has a dangling parent")
	ErrCompletionFailed = errors.New("completion call failed")
	ErrInvalidArgument  = errors.New("invalid argument")
)
