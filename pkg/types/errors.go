package types

import "errors"

// Shared sentinel errors.
var (
	// ErrNoNamespace is returned by callers that require a namespace
	// declaration when the scanned source contains none.
	ErrNoNamespace = errors.New("no namespace declaration found")
)
