package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	// ErrNotFound is returned when a referenced agent template or session
	// document does not exist on disk.
	ErrNotFound = errors.New("domain: not found")

	// ErrBadFormat is returned when a stored document is malformed: a
	// mandatory segment is missing, a required property is absent, or a
	// timestamp does not parse.
	ErrBadFormat = errors.New("domain: malformed document")
)
