package ecs

import "github.com/rotisserie/eris"

// Every error returned by this package wraps one of these; test with errors.Is.
var (
	ErrCapacityExceeded   = eris.New("capacity exceeded")
	ErrComponentNotFound  = eris.New("component not on entity")
	ErrDuplicateComponent = eris.New("component already on entity")
	ErrComponentAttached  = eris.New("component already attached to an entity")
	ErrEntityReleased     = eris.New("entity has been released")
	ErrTraversal          = eris.New("structural change during traversal")
)
