package tensor

import "github.com/pkg/errors"

// Common errors.
var (
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrInvalidShape     = errors.New("invalid shape")
	ErrUnsupportedValue = errors.New("unsupported value type")
	ErrNotScalar        = errors.New("array is not 1×1")
)
