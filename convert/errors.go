package convert

import "errors"

var (
	// ErrConverterRequired is returned when a converter is not provided.
	ErrConverterRequired = errors.New("converter required")

	// ErrConverterCommand is returned when the external converter
	// command is missing or exits abnormally.
	ErrConverterCommand = errors.New("converter command failed")
)
