package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrVersionConflict indicates the document changed since the caller read it.
	ErrVersionConflict = errors.New("project document modified since it was read")
)
