package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrTaggingUnavailable = errors.New("tagging unavailable")
	ErrPatternSyntax      = errors.New("pattern syntax error")
)
