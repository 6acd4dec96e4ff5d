package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scramgo/ftcore/ftgraph"
	"github.com/scramgo/ftcore/preprocess"
)

func TestModuleDetectorFlagsDisjointSubtreesAsModules(t *testing.T) {
	g := ftgraph.NewGraph(4)
	g1 := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(g1, 1))
	require.NoError(t, g.AddArg(g1, 2))
	g2 := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(g2, 3))
	require.NoError(t, g.AddArg(g2, 4))
	top := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(top, g1))
	require.NoError(t, g.AddArg(top, g2))

	d := preprocess.NewModuleDetector(g)
	mods, err := d.Detect(top)
	require.NoError(t, err)

	assert.True(t, mods.IsModule[g1])
	assert.True(t, mods.IsModule[g2])
	assert.False(t, mods.IsModule[top], "the root itself is never reported as a module")
	assert.NotEqual(t, mods.ID[g1], mods.ID[g2])
}

func TestModuleDetectorRejectsSharedLeafAsNonModular(t *testing.T) {
	g := ftgraph.NewGraph(3)
	g1 := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(g1, 1))
	require.NoError(t, g.AddArg(g1, 2))
	g2 := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(g2, 2)) // shares leaf 2 with g1
	require.NoError(t, g.AddArg(g2, 3))
	top := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(top, g1))
	require.NoError(t, g.AddArg(top, g2))

	d := preprocess.NewModuleDetector(g)
	mods, err := d.Detect(top)
	require.NoError(t, err)

	assert.False(t, mods.IsModule[g1], "g1 shares a leaf with g2, so neither's reachable leaves are exclusive to it")
	assert.False(t, mods.IsModule[g2])
}

func TestModuleDetectorRejectsMultiParentGateAsNonModular(t *testing.T) {
	g := ftgraph.NewGraph(2)
	shared := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(shared, 1))
	require.NoError(t, g.AddArg(shared, 2))

	left := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(left, shared))
	top := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(top, left))
	require.NoError(t, g.AddArg(top, shared))

	d := preprocess.NewModuleDetector(g)
	mods, err := d.Detect(top)
	require.NoError(t, err)

	assert.False(t, mods.IsModule[shared], "a gate referenced by two parents cannot be a single-parent module")
}

func TestModuleDetectorAssignsDenseAscendingIDs(t *testing.T) {
	g := ftgraph.NewGraph(4)
	g1 := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(g1, 1))
	require.NoError(t, g.AddArg(g1, 2))
	g2 := g.NewGate(ftgraph.AND)
	require.NoError(t, g.AddArg(g2, 3))
	require.NoError(t, g.AddArg(g2, 4))
	top := g.NewGate(ftgraph.OR)
	require.NoError(t, g.AddArg(top, g1))
	require.NoError(t, g.AddArg(top, g2))

	d := preprocess.NewModuleDetector(g)
	mods, err := d.Detect(top)
	require.NoError(t, err)

	ids := []int32{mods.ID[g1], mods.ID[g2]}
	assert.ElementsMatch(t, []int32{1, 2}, ids)
}
