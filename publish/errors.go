package publish

import "errors"

var (
	// ErrStoreRequired is returned when a publisher is built without a
	// blob store.
	ErrStoreRequired = errors.New("blob store is required")

	// ErrRecorderRequired is returned when a publisher is built without
	// a ledger recorder.
	ErrRecorderRequired = errors.New("ledger recorder is required")
)
