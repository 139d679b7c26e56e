package collide

import "errors"

var (
	// ErrInvalidPairTypes indicates the broad phase dispatched two entries
	// this handler cannot pair. The handler is left clean.
	ErrInvalidPairTypes = errors.New("collide: invalid pair types")

	// ErrHandlerInUse indicates Initialize on a handler that was not cleaned up.
	ErrHandlerInUse = errors.New("collide: handler already initialized")
)
