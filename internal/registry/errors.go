package registry

import "errors"

var (
	// ErrUnsupportedOperation means nothing at all is registered for the
	// operation. It is a construction bug, not an input error; never retry.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	ErrInvalidImplementation     = errors.New("invalid implementation")
	ErrDuplicateImplementation   = errors.New("implementation already registered")
	ErrMissingFallback           = errors.New("no reference implementation registered")
	ErrFrozen                    = errors.New("registry already built")
	ErrImplementationNotFound    = errors.New("implementation not found")
	ErrImplementationUnavailable = errors.New("implementation unavailable")
)
