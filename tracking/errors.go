package tracking

import "errors"

var (
	// ErrStoreRequired is returned when a blob store is not provided.
	ErrStoreRequired = errors.New("blob store required")

	// ErrLedgerUnavailable indicates the remote ledger could not be
	// fetched. At run start this is fatal: continuing would operate
	// against a stale or unknown ledger.
	ErrLedgerUnavailable = errors.New("tracking ledger unavailable")

	// ErrLedgerMalformed indicates the ledger document failed to parse.
	ErrLedgerMalformed = errors.New("malformed tracking ledger")

	// ErrLockUnavailable indicates the run lock could not be read or
	// written. Fatal: a stuck or unknown lock blocks all runs.
	ErrLockUnavailable = errors.New("run lock unavailable")
)
