package encounters

import "errors"

var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrNotFound                 = errors.New("encounter not found")
	ErrInvalidTransition        = errors.New("invalid transition")
	ErrUnauthorized             = errors.New("unauthorized transition")
	ErrMissingField             = errors.New("missing required field")
	ErrDuplicateActiveEncounter = errors.New("patient already has an active encounter")
	ErrConcurrentModification   = errors.New("concurrent modification")
	ErrStoreUnavailable         = errors.New("store unavailable")
)
