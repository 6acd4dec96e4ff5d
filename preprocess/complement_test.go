package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scramgo/ftcore/ftgraph"
	"github.com/scramgo/ftcore/preprocess"
)

func TestComplementPropagatorResolvesPositiveRootUnchanged(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, 2))

	c := preprocess.NewComplementPropagator(g)
	resolved, err := c.Propagate(top, 1)
	require.NoError(t, err)
	assert.Equal(t, top, resolved)
}

func TestComplementPropagatorMaterializesComplementOfNegatedRoot(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, 2))

	c := preprocess.NewComplementPropagator(g)
	resolved, err := c.Propagate(top, -1)
	require.NoError(t, err)
	assert.NotEqual(t, top, resolved)

	kind, err := g.KindOf(resolved)
	require.NoError(t, err)
	assert.Equal(t, ftgraph.AND, kind, "De Morgan's dual of an OR is an AND")

	leaves, _, err := g.ArgsOf(resolved)
	require.NoError(t, err)
	assert.Equal(t, []int32{-2, -1}, leaves)
}

func TestComplementPropagatorRewritesSignedGateChildToPositiveComplement(t *testing.T) {
	g := ftgraph.NewGraph(2)
	inner := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(inner, 1))
	require.NoError(t, g.AddArg(inner, 2))

	top := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(top, -inner))

	c := preprocess.NewComplementPropagator(g)
	resolved, err := c.Propagate(top, 1)
	require.NoError(t, err)

	_, gates, err := g.ArgsOf(resolved)
	require.NoError(t, err)
	require.Len(t, gates, 1)
	assert.Positive(t, gates[0], "every gate-child reference must be positive once propagation has run")

	childKind, err := g.KindOf(gates[0])
	require.NoError(t, err)
	assert.Equal(t, ftgraph.OR, childKind)
}

func TestComplementPropagatorReusesCachedComplementForSharedGate(t *testing.T) {
	g := ftgraph.NewGraph(2)
	shared := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(shared, 1))
	require.NoError(t, g.AddArg(shared, 2))

	left := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(left, -shared))
	right := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(right, -shared))

	top := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(top, left))
	require.NoError(t, g.AddArg(top, right))

	c := preprocess.NewComplementPropagator(g)
	_, err := c.Propagate(top, 1)
	require.NoError(t, err)

	_, leftGates, err := g.ArgsOf(left)
	require.NoError(t, err)
	_, rightGates, err := g.ArgsOf(right)
	require.NoError(t, err)
	require.Len(t, leftGates, 1)
	require.Len(t, rightGates, 1)
	assert.Equal(t, leftGates[0], rightGates[0], "both parents must share the single materialized complement gate")
}
