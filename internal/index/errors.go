package index

import "errors"

var (
	// ErrIncompletePool indicates Build was called before every achievable
	// record was in the pool. It is a programming error.
	ErrIncompletePool = errors.New("pool is not complete")
	// ErrStoreWrite indicates the index could not be persisted. Nothing
	// written by the failed run is left behind.
	ErrStoreWrite = errors.New("cannot persist index")
)
