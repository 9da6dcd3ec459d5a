// Package tensor provides the dense two-dimensional float64 arrays that every
// graph node stores.
//
// All arrays are kept in a canonical 2-D form: a scalar is 1×1 and a flat
// sequence of length n is an n×1 column. Storage is a gonum mat.Dense in
// row-major order.
package tensor

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Array is a dense row-major rows×cols float64 array.
//
// Arrays returned by the arithmetic helpers in this package are always fresh;
// only Fill, AddInPlace and Set mutate an existing array.
type Array struct {
	m *mat.Dense
}

// New creates a rows×cols array from row-major data. The data is copied.
func New(rows, cols int, data []float64) (*Array, error) {
	shape := Shape{Rows: rows, Cols: cols}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(data) != shape.NumElements() {
		return nil, errors.Wrapf(ErrInvalidShape, "%d values cannot fill %s", len(data), shape)
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return &Array{m: mat.NewDense(rows, cols, buf)}, nil
}

// Scalar creates a 1×1 array.
func Scalar(v float64) *Array {
	return &Array{m: mat.NewDense(1, 1, []float64{v})}
}

// Column creates an n×1 column array from a flat sequence.
func Column(values []float64) (*Array, error) {
	if len(values) == 0 {
		return nil, errors.Wrap(ErrInvalidShape, "empty sequence")
	}
	return New(len(values), 1, values)
}

// FromRows creates an array from a slice of equally long rows.
func FromRows(rows [][]float64) (*Array, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.Wrap(ErrInvalidShape, "empty rows")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Wrapf(ErrInvalidShape, "ragged rows: row %d has %d values, row 0 has %d",
				i, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Array{m: mat.NewDense(len(rows), cols, data)}, nil
}

// FromMatrix copies any gonum matrix into a new array.
func FromMatrix(m mat.Matrix) (*Array, error) {
	r, c := m.Dims()
	if err := (Shape{Rows: r, Cols: c}).Validate(); err != nil {
		return nil, err
	}
	d := mat.NewDense(r, c, nil)
	d.Copy(m)
	return &Array{m: d}, nil
}

// Zeros creates an array filled with zeros.
// It panics if shape is invalid.
func Zeros(shape Shape) *Array {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	return &Array{m: mat.NewDense(shape.Rows, shape.Cols, nil)}
}

// Ones creates an array filled with ones.
func Ones(shape Shape) *Array {
	return Full(shape, 1)
}

// Full creates an array filled with a specific value.
func Full(shape Shape, value float64) *Array {
	a := Zeros(shape)
	a.Fill(value)
	return a
}

// Shape returns the array's extents.
func (a *Array) Shape() Shape {
	r, c := a.m.Dims()
	return Shape{Rows: r, Cols: c}
}

// Rows returns the number of rows.
func (a *Array) Rows() int {
	r, _ := a.m.Dims()
	return r
}

// Cols returns the number of columns.
func (a *Array) Cols() int {
	_, c := a.m.Dims()
	return c
}

// NumElements returns rows*cols.
func (a *Array) NumElements() int {
	return a.Shape().NumElements()
}

// At returns the value at row i, column j.
func (a *Array) At(i, j int) float64 {
	return a.m.At(i, j)
}

// Set writes the value at row i, column j.
func (a *Array) Set(i, j int, v float64) {
	a.m.Set(i, j, v)
}

// Data returns a row-major copy of the values.
func (a *Array) Data() []float64 {
	rows, cols := a.m.Dims()
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		out = append(out, a.m.RawRowView(i)...)
	}
	return out
}

// Matrix exposes the underlying storage as a read-only gonum matrix.
func (a *Array) Matrix() mat.Matrix {
	return a.m
}

// Item returns the single value of a 1×1 array.
func (a *Array) Item() (float64, error) {
	if !a.Shape().IsScalar() {
		return 0, errors.Wrapf(ErrNotScalar, "shape is %s", a.Shape())
	}
	return a.m.At(0, 0), nil
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	d := mat.DenseCopyOf(a.m)
	return &Array{m: d}
}

// Fill overwrites every cell with v, in place.
func (a *Array) Fill(v float64) {
	rows, _ := a.m.Dims()
	for i := 0; i < rows; i++ {
		row := a.m.RawRowView(i)
		for j := range row {
			row[j] = v
		}
	}
}

// AddInPlace adds src into a cell by cell.
func (a *Array) AddInPlace(src *Array) error {
	if err := SameShape("add in place", a.Shape(), src.Shape()); err != nil {
		return err
	}
	a.m.Add(a.m, src.m)
	return nil
}

// Equal reports whether both arrays have the same shape and values.
func (a *Array) Equal(b *Array) bool {
	return a.Shape() == b.Shape() && mat.Equal(a.m, b.m)
}

// EqualApprox reports whether both arrays have the same shape and values
// within the given absolute or relative tolerance.
func (a *Array) EqualApprox(b *Array, tol float64) bool {
	return a.Shape() == b.Shape() && mat.EqualApprox(a.m, b.m, tol)
}

// String renders the array in gonum's matrix format.
func (a *Array) String() string {
	return fmt.Sprintf("%v", mat.Formatted(a.m, mat.Squeeze()))
}
