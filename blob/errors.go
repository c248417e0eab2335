package blob

import "errors"

var (
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrEmptyBucket indicates an operation was attempted without a bucket name.
	ErrEmptyBucket = errors.New("bucket cannot be empty")

	// ErrEmptyKey indicates an operation was attempted without an object key.
	ErrEmptyKey = errors.New("object key cannot be empty")
)
