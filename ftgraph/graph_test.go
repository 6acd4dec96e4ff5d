package ftgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scramgo/ftcore/ftgraph"
)

func TestNewGateMintsAscendingIndices(t *testing.T) {
	g := ftgraph.NewGraph(3)

	first := g.NewGate(ftgraph.AND)
	second := g.NewGate(ftgraph.OR)

	assert.Equal(t, int32(4), first)
	assert.Equal(t, int32(5), second)
}

func TestAddArgRecordsLeafArguments(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewGate(ftgraph.AND)

	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, 2))

	leaves, gates, err := g.ArgsOf(top)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, leaves)
	assert.Empty(t, gates)
}

func TestAddArgDetectsAndNull(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewGate(ftgraph.AND)

	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, -1))

	null, err := g.IsNull(top)
	require.NoError(t, err)
	assert.True(t, null)
}

func TestAddArgDetectsOrUnity(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewGate(ftgraph.OR)

	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, -1))

	unity, err := g.IsUnity(top)
	require.NoError(t, err)
	assert.True(t, unity)
}

func TestAddArgMaintainsParentBackReferences(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewGate(ftgraph.OR)
	child := g.NewGate(ftgraph.AND)

	require.NoError(t, g.AddArg(top, child))

	parents, err := g.ParentsOf(child)
	require.NoError(t, err)
	assert.Equal(t, []int32{top}, parents)
}

func TestAddArgRejectsCycle(t *testing.T) {
	g := ftgraph.NewGraph(1)
	a := g.NewGate(ftgraph.AND)
	b := g.NewGate(ftgraph.OR)

	require.NoError(t, g.AddArg(a, b))
	err := g.AddArg(b, a)
	require.Error(t, err)

	var idxErr *ftgraph.IndexError
	require.ErrorAs(t, err, &idxErr)
	assert.ErrorIs(t, idxErr.Err, ftgraph.ErrCycle)
}

func TestReplaceArgIsAtomic(t *testing.T) {
	g := ftgraph.NewGraph(3)
	top := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(top, 1))

	require.NoError(t, g.ReplaceArg(top, 1, 2))

	leaves, _, err := g.ArgsOf(top)
	require.NoError(t, err)
	assert.Equal(t, []int32{2}, leaves)
}

func TestDetachGateRemovesFromAllParents(t *testing.T) {
	g := ftgraph.NewGraph(1)
	top := g.NewGate(ftgraph.OR)
	mid := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(top, mid))

	g.DetachGate(mid)

	_, gates, err := g.ArgsOf(top)
	require.NoError(t, err)
	assert.Empty(t, gates)
}

func TestAddArgRejectsTransitiveCycle(t *testing.T) {
	g := ftgraph.NewGraph(1)
	a := g.NewGate(ftgraph.AND)
	b := g.NewGate(ftgraph.OR)
	c := g.NewGate(ftgraph.AND)

	require.NoError(t, g.AddArg(a, b))
	require.NoError(t, g.AddArg(b, c))

	err := g.AddArg(c, a)
	require.Error(t, err)

	var idxErr *ftgraph.IndexError
	require.ErrorAs(t, err, &idxErr)
	assert.ErrorIs(t, idxErr.Err, ftgraph.ErrCycle)

	_, gates, err := g.ArgsOf(c)
	require.NoError(t, err)
	assert.Empty(t, gates, "the rejected edge must not have been recorded")
}

func TestValidateAcyclicAcceptsAcyclicGraph(t *testing.T) {
	g := ftgraph.NewGraph(1)
	a := g.NewGate(ftgraph.AND)
	b := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(a, b))

	require.NoError(t, ftgraph.ValidateAcyclic(g))
}

func TestMarkHouseEventAndLookup(t *testing.T) {
	g := ftgraph.NewGraph(2)
	g.MarkHouseEvent(1, true)

	value, isHouse := g.HouseValue(1)
	assert.True(t, isHouse)
	assert.True(t, value)

	_, isHouse = g.HouseValue(2)
	assert.False(t, isHouse)
}

func TestValidateKinds(t *testing.T) {
	g := ftgraph.NewGraph(1)
	g.NewGate(ftgraph.OR)
	g.NewGate(ftgraph.AND)

	assert.NoError(t, ftgraph.ValidateKinds(g, ftgraph.OR, ftgraph.AND))
	assert.Error(t, ftgraph.ValidateKinds(g, ftgraph.OR))
}
