package journal

import "errors"

var (
	// ErrEmptyRunID is returned when a journal operation is given no run ID.
	ErrEmptyRunID = errors.New("run ID cannot be empty")

	// ErrCorruptRecord is returned when a stored record cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt journal record")
)
