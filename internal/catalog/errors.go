package catalog

import "errors"

var (
	// ErrNotFound means the identifier does not resolve. It is not the same as an empty result.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable wraps failures of the backing product/category store.
	ErrStoreUnavailable = errors.New("catalog store unavailable")
)
