package pipeline

import "errors"

var (
	// ErrCatalogRequired is returned when a pipeline is built without a catalog.
	ErrCatalogRequired = errors.New("catalog is required")

	// ErrFetcherRequired is returned when a pipeline is built without a fetcher.
	ErrFetcherRequired = errors.New("fetcher is required")

	// ErrTransformerRequired is returned when a pipeline is built without a transformer.
	ErrTransformerRequired = errors.New("transformer is required")

	// ErrPublisherRequired is returned when a pipeline is built without a publisher.
	ErrPublisherRequired = errors.New("publisher is required")

	// ErrLedgerRequired is returned when a pipeline is built without a ledger.
	ErrLedgerRequired = errors.New("tracking ledger is required")

	// ErrLockRequired is returned when a pipeline is built without a run lock.
	ErrLockRequired = errors.New("run lock is required")

	// ErrDataDirRequired is returned when a pipeline is built without a
	// local data directory.
	ErrDataDirRequired = errors.New("data directory is required")
)
