package backup

import "errors"

var (
	// ErrMalformedPackage is returned by [Read] for a package that cannot be
	// restored: invalid JSON, no vault section, or a vault section whose hash
	// or salt cannot be used.
	ErrMalformedPackage = errors.New("malformed backup package")

	// ErrEmptyPath is returned when no destination or source path is given.
	ErrEmptyPath = errors.New("backup path is empty")
)
