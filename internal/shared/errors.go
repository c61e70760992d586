package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrEnvironmentUnsupported indicates the host has no usable persistent storage.
	ErrEnvironmentUnsupported = errors.New("persistent storage unavailable")
	// ErrSchemaMissing occurs when an expected collection does not exist.
	ErrSchemaMissing = errors.New("collection missing")
	// ErrTransactionAborted occurs when the underlying storage operation failed or was aborted.
	ErrTransactionAborted = errors.New("storage transaction aborted")
	// ErrValidation wraps input validation failures.
	ErrValidation = errors.New("validation failed")
	// ErrConcurrentUpdate occurs when an optimistic write lost against another writer.
	ErrConcurrentUpdate = errors.New("concurrent update")
)
