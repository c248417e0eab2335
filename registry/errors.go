package registry

import "errors"

var (
	// ErrUnavailable indicates the registry document could not be retrieved.
	ErrUnavailable = errors.New("registry unavailable")

	// ErrMalformed indicates the registry document did not contain an
	// ontologies list.
	ErrMalformed = errors.New("malformed registry document")
)
