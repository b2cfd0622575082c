package translate

import (
	"errors"
	"fmt"
)

// Translation failure causes.
var (
	ErrMissingMaterial     = errors.New("face uses an empty material slot")
	ErrSlotOutOfRange      = errors.New("face material slot out of range")
	ErrDegenerateTransform = errors.New("transform is not invertible")
	ErrNonFinite           = errors.New("value is not finite")
)

// TranslationError reports a scene object that could not be converted.
type TranslationError struct {
	Object string // scene object name
	Field  string // offending property, e.g. "faces[3].material_slot"
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate %q: %s: %v", e.Object, e.Field, e.Err)
}

// Unwrap returns the failure cause.
func (e *TranslationError) Unwrap() error {
	return e.Err
}
