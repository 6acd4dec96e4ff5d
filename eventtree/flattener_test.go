package eventtree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scramgo/ftcore/eventtree"
	"github.com/scramgo/ftcore/ftgraph"
)

func TestFlattenSingleSequenceSinglePath(t *testing.T) {
	g := ftgraph.NewGraph(2)
	tree := &eventtree.EventTree{
		Name: "t1",
		InitialState: &eventtree.Branch{
			Instructions: []eventtree.Instruction{eventtree.CollectFormula{Formula: 1}},
			Target:       &eventtree.Sequence{Name: "seq-a"},
		},
	}

	f := eventtree.NewFlattener(g)
	result, err := f.Flatten(tree)
	require.NoError(t, err)

	gate, ok := result.SequenceGates["seq-a"]
	require.True(t, ok)
	assert.Equal(t, int32(1), gate, "a single-formula path resolves directly to that formula reference")
}

func TestFlattenForkProducesOrOfPerPathAnds(t *testing.T) {
	g := ftgraph.NewGraph(3)
	tree := &eventtree.EventTree{
		Name: "t1",
		InitialState: &eventtree.Branch{
			Target: &eventtree.Fork{
				Paths: []*eventtree.Branch{
					{
						Instructions: []eventtree.Instruction{
							eventtree.CollectFormula{Formula: 1},
							eventtree.CollectFormula{Formula: 2},
						},
						Target: &eventtree.Sequence{Name: "seq-a"},
					},
					{
						Instructions: []eventtree.Instruction{eventtree.CollectFormula{Formula: 3}},
						Target:       &eventtree.Sequence{Name: "seq-a"},
					},
				},
			},
		},
	}

	f := eventtree.NewFlattener(g)
	result, err := f.Flatten(tree)
	require.NoError(t, err)

	gate := result.SequenceGates["seq-a"]
	kind, err := g.KindOf(gate)
	require.NoError(t, err)
	assert.Equal(t, ftgraph.OR, kind)

	_, gates, err := g.ArgsOf(gate)
	require.NoError(t, err)
	require.Len(t, gates, 1, "the multi-formula path contributes one AND gate")
	leaves, _, err := g.ArgsOf(gate)
	require.NoError(t, err)
	assert.Equal(t, []int32{3}, leaves, "the single-formula path contributes its formula reference directly")

	andKind, err := g.KindOf(gates[0])
	require.NoError(t, err)
	assert.Equal(t, ftgraph.AND, andKind)
	andLeaves, _, err := g.ArgsOf(gates[0])
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, andLeaves)
}

func TestFlattenLinkSuppressesOriginalSequenceAndReachesTarget(t *testing.T) {
	g := ftgraph.NewGraph(2)
	linked := &eventtree.EventTree{
		Name: "t2",
		InitialState: &eventtree.Branch{
			Instructions: []eventtree.Instruction{eventtree.CollectFormula{Formula: 2}},
			Target:       &eventtree.Sequence{Name: "seq-linked"},
		},
	}
	tree := &eventtree.EventTree{
		Name: "t1",
		InitialState: &eventtree.Branch{
			Instructions: []eventtree.Instruction{
				eventtree.CollectFormula{Formula: 1},
				eventtree.Link{Target: linked},
			},
			Target: &eventtree.Sequence{Name: "seq-a"},
		},
	}

	f := eventtree.NewFlattener(g)
	result, err := f.Flatten(tree)
	require.NoError(t, err)

	_, hasOriginal := result.SequenceGates["seq-a"]
	assert.False(t, hasOriginal, "a path that passed through a Link must not register its own sequence")

	gate, hasLinked := result.SequenceGates["seq-linked"]
	require.True(t, hasLinked)
	kind, err := g.KindOf(gate)
	require.NoError(t, err)
	assert.Equal(t, ftgraph.AND, kind, "the linked path carries forward the formula collected before the Link")
	leaves, _, err := g.ArgsOf(gate)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, leaves)
}

func TestFlattenSetHouseEventIsScopedToItsOwnSequenceNotTheSharedGraph(t *testing.T) {
	g := ftgraph.NewGraph(1)
	tree := &eventtree.EventTree{
		Name: "t1",
		InitialState: &eventtree.Branch{
			Instructions: []eventtree.Instruction{
				eventtree.SetHouseEvent{Index: 1, Value: true},
				eventtree.CollectFormula{Formula: 1},
			},
			Target: &eventtree.Sequence{Name: "seq-a"},
		},
	}

	f := eventtree.NewFlattener(g)
	result, err := f.Flatten(tree)
	require.NoError(t, err)

	assert.Equal(t, map[int32]bool{1: true}, result.SequenceHouseEvents["seq-a"])

	_, isHouse := g.HouseValue(1)
	assert.False(t, isHouse, "SetHouseEvent must not mutate the shared graph's house-event registry")
}

func TestFlattenForkArmsWithConflictingSetHouseEventStayIndependent(t *testing.T) {
	g := ftgraph.NewGraph(1)
	tree := &eventtree.EventTree{
		Name: "t1",
		InitialState: &eventtree.Branch{
			Target: &eventtree.Fork{
				Paths: []*eventtree.Branch{
					{
						Instructions: []eventtree.Instruction{
							eventtree.SetHouseEvent{Index: 1, Value: true},
							eventtree.CollectFormula{Formula: 1},
						},
						Target: &eventtree.Sequence{Name: "seq-true"},
					},
					{
						Instructions: []eventtree.Instruction{
							eventtree.SetHouseEvent{Index: 1, Value: false},
							eventtree.CollectFormula{Formula: 1},
						},
						Target: &eventtree.Sequence{Name: "seq-false"},
					},
				},
			},
		},
	}

	f := eventtree.NewFlattener(g)
	result, err := f.Flatten(tree)
	require.NoError(t, err)

	assert.Equal(t, map[int32]bool{1: true}, result.SequenceHouseEvents["seq-true"])
	assert.Equal(t, map[int32]bool{1: false}, result.SequenceHouseEvents["seq-false"])

	_, isHouse := g.HouseValue(1)
	assert.False(t, isHouse, "neither fork arm's override may leak into the shared graph")
}

func TestFlattenSequenceWithNoInstructionsIsVacuouslyTrue(t *testing.T) {
	g := ftgraph.NewGraph(0)
	tree := &eventtree.EventTree{
		Name:         "t1",
		InitialState: &eventtree.Branch{Target: &eventtree.Sequence{Name: "seq-a"}},
	}

	f := eventtree.NewFlattener(g)
	result, err := f.Flatten(tree)
	require.NoError(t, err)

	gate := result.SequenceGates["seq-a"]
	unity, err := g.IsUnity(gate)
	require.NoError(t, err)
	assert.True(t, unity)
}

func TestFlattenCollectsExpressionIdentifiersWithoutEvaluating(t *testing.T) {
	g := ftgraph.NewGraph(0)
	tree := &eventtree.EventTree{
		Name: "t1",
		InitialState: &eventtree.Branch{
			Instructions: []eventtree.Instruction{eventtree.CollectExpression{Expression: "lambda-1"}},
			Target:       &eventtree.Sequence{Name: "seq-a"},
		},
	}

	f := eventtree.NewFlattener(g)
	result, err := f.Flatten(tree)
	require.NoError(t, err)

	assert.Equal(t, []string{"lambda-1"}, result.SequenceExpressions["seq-a"])
}
