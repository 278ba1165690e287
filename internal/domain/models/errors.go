package models

import "errors"

var (
	// ErrSyncInProgress is returned when a sync pass is requested while another one runs.
	ErrSyncInProgress = errors.New("inventory sync already in progress")

	// ErrFetchFailed wraps transport failures and non-success responses from the accounting system.
	ErrFetchFailed = errors.New("stock export fetch failed")

	// ErrReplaceFailed wraps product store failures during the delete or insert phase.
	ErrReplaceFailed = errors.New("catalog replace failed")

	// ErrProductNotFound is returned by product stores for unknown IDs.
	ErrProductNotFound = errors.New("product not found")

	// ErrBatchTooLarge is returned when a batch exceeds the store's maximum size.
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)
