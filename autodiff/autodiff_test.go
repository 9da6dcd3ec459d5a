// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/gradflow/autodiff"
	"github.com/born-ml/gradflow/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAPI_SinChain(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf(3.5, "x")
	require.NoError(t, err)
	twoX, err := g.Mul(2.0, x)
	require.NoError(t, err)
	arg, err := g.Add(twoX, 0.5)
	require.NoError(t, err)
	z, err := g.Sin(arg)
	require.NoError(t, err)

	require.NoError(t, g.BackwardScalar(z))
	grad, ok := g.Grad(x)
	require.True(t, ok)
	assert.InDelta(t, 2*math.Cos(7.5), grad.At(0, 0), 1e-12)
}

func TestPublicAPI_ApplyAndCheck(t *testing.T) {
	build := func(g *autodiff.Graph, in []autodiff.NodeID) (autodiff.NodeID, error) {
		return g.Apply(autodiff.OpTanh, in[0])
	}
	x, err := tensor.From([]float64{-0.5, 0.25, 1})
	require.NoError(t, err)

	result, err := autodiff.CheckGradient(build, []*tensor.Array{x}, autodiff.DefaultGradCheckConfig())
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Len(t, autodiff.Ops(), 14)
}
