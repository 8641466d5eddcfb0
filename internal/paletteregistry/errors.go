package paletteregistry

import "errors"

// ErrSchemeNotFound is returned when a name or UID has no registered
// Scheme.
var ErrSchemeNotFound = errors.New("paletteregistry: scheme not found")
