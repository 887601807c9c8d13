// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"testing"

	"github.com/born-ml/micrograd/autodiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAPI(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2.0, "a")
	b := g.Leaf(-3.0, "b")
	c := g.Leaf(10.0, "c")
	e := a.Mul(b).Add(c)

	e.SetGrad(1)
	g.BackwardParallel(e.ID(), autodiff.Workers(2))

	assert.Equal(t, 4.0, e.Data())
	assert.Equal(t, -3.0, a.Grad())
	assert.Equal(t, 2.0, b.Grad())

	tr := g.Trace(e.ID())
	assert.Len(t, tr.Nodes, 5)
	assert.Contains(t, tr.Edges, autodiff.Edge{Child: c.ID(), Parent: e.ID()})

	_, err := a.PowOperand(b)
	require.ErrorIs(t, err, autodiff.ErrInvalidOperand)
}
