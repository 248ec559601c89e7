package webhook

import "errors"

var (
	// ErrBadBody is returned when a captured payload is not a JSON document
	ErrBadBody = errors.New("bad body")
	// ErrNotFound is returned when no stored webhook has the requested ID
	ErrNotFound = errors.New("webhook not found")
)
