package tensor

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Shape is the canonical two-dimensional extent of an Array.
// Scalars are 1×1 and flat sequences are n×1 columns.
type Shape struct {
	Rows int
	Cols int
}

// NumElements returns the total number of cells.
func (s Shape) NumElements() int {
	return s.Rows * s.Cols
}

// Validate checks that both dimensions are positive and that the number of
// cells fits in an int.
func (s Shape) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return errors.Wrapf(ErrInvalidShape, "%s (dimensions must be > 0)", s)
	}
	if s.Rows > math.MaxInt/s.Cols {
		return errors.Wrapf(ErrInvalidShape, "%s (too many elements)", s)
	}
	return nil
}

// IsScalar reports whether the shape is 1×1.
func (s Shape) IsScalar() bool {
	return s.Rows == 1 && s.Cols == 1
}

// Transposed returns the shape with rows and columns swapped.
func (s Shape) Transposed() Shape {
	return Shape{Rows: s.Cols, Cols: s.Rows}
}

// String renders the shape as "rows×cols".
func (s Shape) String() string {
	return fmt.Sprintf("%d×%d", s.Rows, s.Cols)
}

// SameShape checks that every shape equals the first one.
//
// The error wraps ErrShapeMismatch and names the offending position, so
// callers can report which operand of an elementwise op was wrong.
func SameShape(op string, shapes ...Shape) error {
	for i := 1; i < len(shapes); i++ {
		if shapes[i] != shapes[0] {
			return errors.Wrapf(ErrShapeMismatch, "%s: operand %d is %s, operand 0 is %s",
				op, i, shapes[i], shapes[0])
		}
	}
	return nil
}

// MatMulShape returns the result shape of a·b or an error when the inner
// dimensions disagree.
func MatMulShape(a, b Shape) (Shape, error) {
	if a.Cols != b.Rows {
		return Shape{}, errors.Wrapf(ErrShapeMismatch, "matmul: %s · %s (inner dimensions %d vs %d)",
			a, b, a.Cols, b.Rows)
	}
	return Shape{Rows: a.Rows, Cols: b.Cols}, nil
}
