package repository

import "errors"

// ErrConflict is returned when an optimistic concurrency check fails.
var ErrConflict = errors.New("conflict: document was modified by another writer")
