package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scramgo/ftcore/ftgraph"
	"github.com/scramgo/ftcore/preprocess"
)

func TestNormalizeRewritesNorAsOrWithFlippedSign(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewGate(ftgraph.NOR)
	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, 2))

	n := preprocess.NewNormalizer(g, nil)
	root, err := n.Normalize(top)
	require.NoError(t, err)

	kind, err := g.KindOf(root)
	require.NoError(t, err)
	assert.Equal(t, ftgraph.OR, kind)
	assert.Equal(t, int32(-1), n.RootSign)
}

func TestNormalizeRewritesNandAsAndWithFlippedSign(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewGate(ftgraph.NAND)
	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, 2))

	n := preprocess.NewNormalizer(g, nil)
	root, err := n.Normalize(top)
	require.NoError(t, err)

	kind, err := g.KindOf(root)
	require.NoError(t, err)
	assert.Equal(t, ftgraph.AND, kind)
	assert.Equal(t, int32(-1), n.RootSign)
}

func TestNormalizeRewritesNotAsNullAndFlipsNonRootSign(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewGate(ftgraph.OR)
	not := g.NewGate(ftgraph.NOT)
	require.NoError(t, g.AddArg(not, 1))
	require.NoError(t, g.AddArg(top, not))

	n := preprocess.NewNormalizer(g, nil)
	_, err := n.Normalize(top)
	require.NoError(t, err)

	kind, err := g.KindOf(not)
	require.NoError(t, err)
	assert.Equal(t, ftgraph.NULL, kind)

	_, gates, err := g.ArgsOf(top)
	require.NoError(t, err)
	assert.Equal(t, []int32{-not}, gates, "the edge into the rewritten NOT gate must now be negated")
}

func TestNormalizeUnrollsBinaryXor(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewGate(ftgraph.XOR)
	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, 2))

	n := preprocess.NewNormalizer(g, nil)
	root, err := n.Normalize(top)
	require.NoError(t, err)

	kind, err := g.KindOf(root)
	require.NoError(t, err)
	assert.Equal(t, ftgraph.OR, kind)

	_, gates, err := g.ArgsOf(root)
	require.NoError(t, err)
	require.Len(t, gates, 2)
	for _, c := range gates {
		ck, err := g.KindOf(c)
		require.NoError(t, err)
		assert.Equal(t, ftgraph.AND, ck)
	}
}

func TestNormalizeRejectsHigherArityXor(t *testing.T) {
	g := ftgraph.NewGraph(3)
	top := g.NewGate(ftgraph.XOR)
	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, 2))
	require.NoError(t, g.AddArg(top, 3))

	n := preprocess.NewNormalizer(g, nil)
	_, err := n.Normalize(top)
	require.ErrorIs(t, err, preprocess.ErrUnsupportedXorArity)
}

func TestNormalizeUnrollsAtleastAtTheExtremesAsOrAnd(t *testing.T) {
	g := ftgraph.NewGraph(3)

	orTop := g.NewAtleastGate(1)
	require.NoError(t, g.AddArg(orTop, 1))
	require.NoError(t, g.AddArg(orTop, 2))
	require.NoError(t, g.AddArg(orTop, 3))

	n := preprocess.NewNormalizer(g, nil)
	root, err := n.Normalize(orTop)
	require.NoError(t, err)
	kind, err := g.KindOf(root)
	require.NoError(t, err)
	assert.Equal(t, ftgraph.OR, kind)

	g2 := ftgraph.NewGraph(3)
	andTop := g2.NewAtleastGate(3)
	require.NoError(t, g2.AddArg(andTop, 1))
	require.NoError(t, g2.AddArg(andTop, 2))
	require.NoError(t, g2.AddArg(andTop, 3))

	n2 := preprocess.NewNormalizer(g2, nil)
	root2, err := n2.Normalize(andTop)
	require.NoError(t, err)
	kind2, err := g2.KindOf(root2)
	require.NoError(t, err)
	assert.Equal(t, ftgraph.AND, kind2)
}

func TestNormalizeUnrollsAtleastTwoOfThree(t *testing.T) {
	g := ftgraph.NewGraph(3)
	top := g.NewAtleastGate(2)
	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, 2))
	require.NoError(t, g.AddArg(top, 3))

	n := preprocess.NewNormalizer(g, nil)
	root, err := n.Normalize(top)
	require.NoError(t, err)

	kind, err := g.KindOf(root)
	require.NoError(t, err)
	assert.Equal(t, ftgraph.OR, kind, "ATLEAST(2,3) unrolls to a disjunction of pairwise conjunctions")

	err = ftgraph.ValidateKinds(g, ftgraph.OR, ftgraph.AND, ftgraph.NULL)
	assert.NoError(t, err)
}

func TestNormalizeRejectsAtleastKOutOfRange(t *testing.T) {
	g := ftgraph.NewGraph(2)
	top := g.NewAtleastGate(3)
	require.NoError(t, g.AddArg(top, 1))
	require.NoError(t, g.AddArg(top, 2))

	n := preprocess.NewNormalizer(g, nil)
	_, err := n.Normalize(top)
	require.ErrorIs(t, err, preprocess.ErrAtleastKOutOfRange)
}
