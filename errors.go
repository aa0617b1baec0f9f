package lights

import "errors"

var (
	// ErrUnresolvedReference is reported when an id passed to SetLights is not registered.
	ErrUnresolvedReference = errors.New("unresolved light reference")
	// ErrCapabilityMismatch is reported when an entry passed to SetLights is not a light.
	ErrCapabilityMismatch = errors.New("not a light component")
)
