package library

import "errors"

var (
	// ErrRootNotFound indicates the library root is missing or not a directory.
	ErrRootNotFound = errors.New("library root not found")

	// ErrPathOutsideRoot is returned when a path escapes the library root.
	ErrPathOutsideRoot = errors.New("path outside library root")
)
