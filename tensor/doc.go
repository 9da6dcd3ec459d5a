// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense two-dimensional float64 arrays stored in
// gradflow computation graphs.
//
// # Overview
//
// Every array has a canonical two-dimensional shape:
//   - a scalar is 1×1
//   - a flat sequence of length n is an n×1 column
//   - a sequence of equally long rows is rows×cols
//
// # Basic Usage
//
//	import "github.com/born-ml/gradflow/tensor"
//
//	func main() {
//	    x, _ := tensor.From([]float64{1, 2, 3})      // 3×1
//	    w, _ := tensor.From([][]float64{{1, 0, 2}}) // 1×3
//	    y, _ := tensor.MatMul(w, x)                 // 1×1
//	    v, _ := y.Item()                            // 7
//	}
//
// # Errors
//
// Operations on mismatched shapes return an error wrapping ErrShapeMismatch.
// Ragged or empty input wraps ErrInvalidShape. Use errors.Is to test them.
package tensor
