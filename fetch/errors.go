package fetch

import "errors"

var (
	// ErrDownload indicates a transport failure or short transfer.
	ErrDownload = errors.New("download failed")

	// ErrMissingLength indicates the server sent no Content-Length for
	// a full artifact download.
	ErrMissingLength = errors.New("missing content length")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
