package ledger

import "github.com/pkg/errors"

var (
	// ErrStoreUninitialized is returned when appending before Initialize.
	ErrStoreUninitialized = errors.New("ledger: store not initialized")
	// ErrAlreadyInitializedMismatch is returned by Initialize when the store
	// already holds a genesis record that fails its integrity checks.
	ErrAlreadyInitializedMismatch = errors.New("ledger: existing genesis record fails integrity checks")
	// ErrChainCorrupted is returned by Append in strict mode when the chain
	// already contains violations.
	ErrChainCorrupted = errors.New("ledger: chain contains integrity violations")
)
