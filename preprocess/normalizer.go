package preprocess

import (
	"context"
	"fmt"
	"sort"

	"github.com/scramgo/ftcore/ftgraph"
)

// Normalizer rewrites an ftgraph.Graph so every internal node is one of
// {OR, AND, NULL}, unrolling XOR and ATLEAST gates into OR/AND compositions
// that may mint fresh gate indices. Leaf indices are never touched (I1).
//
// Grounded on original_source/src/indexed_fault_tree.h's
// UnrollGates/UnrollComplexGates/UnrollXorGate/UnrollAtleastGate, reshaped as
// a single top-down visited-set walk per spec.md §4.2's "Ordering" clause.
type Normalizer struct {
	g       *ftgraph.Graph
	ctx     context.Context
	visited map[int32]bool
	memo    map[string]int32 // ATLEAST expansion cache, keyed by "k|sorted(rest)"

	// RootSign tracks the polarity of the logical top event after
	// NOR/NAND/NOT rewrites at the root, which has no parent edge to flip.
	RootSign int32
}

// NewNormalizer constructs a Normalizer over g. ctx may be nil, in which case
// context.Background() is used; it is checked once per gate visited so a
// long ATLEAST/XOR unroll over a large tree can still be cancelled promptly,
// matching the teacher's WithCancelContext convention in dfs/topological.go.
func NewNormalizer(g *ftgraph.Graph, ctx context.Context) *Normalizer {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Normalizer{
		g:        g,
		ctx:      ctx,
		visited:  make(map[int32]bool),
		memo:     make(map[string]int32),
		RootSign: 1,
	}
}

// Normalize walks the graph from root, rewriting every reachable gate.
// It returns the (possibly unchanged) root index; consult n.RootSign
// afterward to learn whether the logical top event is now complemented.
func (n *Normalizer) Normalize(root int32) (int32, error) {
	if err := n.visit(root, true); err != nil {
		return 0, err
	}
	return root, nil
}

func (n *Normalizer) visit(index int32, isRoot bool) error {
	select {
	case <-n.ctx.Done():
		return n.ctx.Err()
	default:
	}
	idx := index
	if idx < 0 {
		idx = -idx
	}
	if n.visited[idx] {
		return nil
	}
	n.visited[idx] = true

	kind, err := n.g.KindOf(idx)
	if err != nil {
		return err
	}

	switch kind {
	case ftgraph.NOR:
		if err := n.g.SetKind(idx, ftgraph.OR); err != nil {
			return err
		}
		n.flip(idx, isRoot)
	case ftgraph.NAND:
		if err := n.g.SetKind(idx, ftgraph.AND); err != nil {
			return err
		}
		n.flip(idx, isRoot)
	case ftgraph.NOT:
		if err := n.g.SetKind(idx, ftgraph.NULL); err != nil {
			return err
		}
		n.flip(idx, isRoot)
	case ftgraph.XOR:
		if err := n.unrollXor(idx); err != nil {
			return err
		}
	case ftgraph.ATLEAST:
		if err := n.unrollAtleast(idx); err != nil {
			return err
		}
	case ftgraph.OR, ftgraph.AND, ftgraph.NULL:
		// already in normalized form; still recurse into children below.
	default:
		return fmt.Errorf("preprocess: normalizer encountered unexpected kind %s at gate %d", kind, idx)
	}

	_, gateArgs, err := n.g.ArgsOf(idx)
	if err != nil {
		return err
	}
	for _, c := range gateArgs {
		if err := n.visit(c, false); err != nil {
			return err
		}
	}
	return nil
}

// flip inverts the sign of every current edge that references idx: for the
// root (no parent edge exists) it inverts Normalizer.RootSign instead.
func (n *Normalizer) flip(idx int32, isRoot bool) {
	if isRoot {
		n.RootSign = -n.RootSign
		return
	}
	parents, _ := n.g.ParentsOf(idx)
	for _, p := range parents {
		_ = n.g.ReplaceArg(p, idx, -idx)
	}
}

// unrollXor rewrites a binary XOR(c1, c2) gate in place as
// OR(AND(c1, -c2), AND(-c1, c2)), per spec.md §4.2. Higher arity is refused
// (OQ2 resolved in DESIGN.md: refuse rather than guess odd-parity semantics).
func (n *Normalizer) unrollXor(idx int32) error {
	leafArgs, gateArgs, err := n.g.ArgsOf(idx)
	if err != nil {
		return err
	}
	children := combinedChildren(leafArgs, gateArgs)
	if len(children) != 2 {
		return fmt.Errorf("%w: gate %d has arity %d", ErrUnsupportedXorArity, idx, len(children))
	}
	c1, c2 := children[0], children[1]

	if err := n.g.ResetArgs(idx); err != nil {
		return err
	}
	if err := n.g.SetKind(idx, ftgraph.OR); err != nil {
		return err
	}

	and1 := n.g.NewGate(ftgraph.AND)
	if err := n.g.AddArg(and1, c1); err != nil {
		return err
	}
	if err := n.g.AddArg(and1, -c2); err != nil {
		return err
	}

	and2 := n.g.NewGate(ftgraph.AND)
	if err := n.g.AddArg(and2, -c1); err != nil {
		return err
	}
	if err := n.g.AddArg(and2, c2); err != nil {
		return err
	}

	if err := n.g.AddArg(idx, and1); err != nil {
		return err
	}
	return n.g.AddArg(idx, and2)
}

// unrollAtleast rewrites an ATLEAST(k, args) gate in place via the recursive
// identity ATLEAST(k, x, rest...) = OR(AND(x, ATLEAST(k-1, rest...)),
// ATLEAST(k, rest...)), memoizing on (k, sorted(rest)) to share subterms
// (spec.md §4.2). k==1 and k==len(args) are handled directly as OR/AND to
// avoid needless recursion at the extremes; the dual expansion for
// n-k < k-1 mentioned in spec.md as a performance option is not implemented.
func (n *Normalizer) unrollAtleast(idx int32) error {
	leafArgs, gateArgs, err := n.g.ArgsOf(idx)
	if err != nil {
		return err
	}
	k, err := n.g.AtleastK(idx)
	if err != nil {
		return err
	}
	children := combinedChildren(leafArgs, gateArgs)
	if k < 1 || k > len(children) {
		return fmt.Errorf("%w: k=%d over %d arguments at gate %d", ErrAtleastKOutOfRange, k, len(children), idx)
	}

	result, err := n.atleastGate(k, children)
	if err != nil {
		return err
	}

	if err := n.g.ResetArgs(idx); err != nil {
		return err
	}
	resultKind, err := n.g.KindOf(result)
	if err != nil {
		return err
	}
	if err := n.g.SetKind(idx, resultKind); err != nil {
		return err
	}
	rLeaf, rGate, err := n.g.ArgsOf(result)
	if err != nil {
		return err
	}
	for _, a := range rLeaf {
		if err := n.g.AddArg(idx, a); err != nil {
			return err
		}
	}
	for _, c := range rGate {
		if err := n.g.AddArg(idx, c); err != nil {
			return err
		}
	}
	// Unless another expansion already references result through the memo,
	// it is scratch: empty and detach it so its children keep idx as their
	// only parent from this expansion.
	if parents, err := n.g.ParentsOf(result); err == nil && len(parents) == 0 {
		delete(n.memo, memoKey(k, children))
		if err := n.g.ResetArgs(result); err != nil {
			return err
		}
		n.g.DetachGate(result)
	}
	return nil
}

// atleastGate returns a gate index representing ATLEAST(k, children...),
// building and memoizing fresh AND/OR gates as needed.
func (n *Normalizer) atleastGate(k int, children []int32) (int32, error) {
	key := memoKey(k, children)
	if g, ok := n.memo[key]; ok {
		return g, nil
	}

	var result int32
	var err error
	switch {
	case k == len(children):
		result, err = n.allOf(children, ftgraph.AND)
	case k == 1:
		result, err = n.allOf(children, ftgraph.OR)
	default:
		x, rest := children[0], children[1:]

		withX := n.g.NewGate(ftgraph.AND)
		if err = n.g.AddArg(withX, x); err != nil {
			return 0, err
		}
		sub, subErr := n.atleastGate(k-1, rest)
		if subErr != nil {
			return 0, subErr
		}
		if err = n.g.AddArg(withX, sub); err != nil {
			return 0, err
		}

		without, withoutErr := n.atleastGate(k, rest)
		if withoutErr != nil {
			return 0, withoutErr
		}

		result = n.g.NewGate(ftgraph.OR)
		if err = n.g.AddArg(result, withX); err != nil {
			return 0, err
		}
		if err = n.g.AddArg(result, without); err != nil {
			return 0, err
		}
	}
	if err != nil {
		return 0, err
	}
	n.memo[key] = result
	return result, nil
}

func (n *Normalizer) allOf(children []int32, kind ftgraph.Kind) (int32, error) {
	g := n.g.NewGate(kind)
	for _, c := range children {
		if err := n.g.AddArg(g, c); err != nil {
			return 0, err
		}
	}
	return g, nil
}

func combinedChildren(leafArgs, gateArgs []int32) []int32 {
	out := make([]int32, 0, len(leafArgs)+len(gateArgs))
	out = append(out, leafArgs...)
	out = append(out, gateArgs...)
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i], out[j]
		if abs(ai) != abs(aj) {
			return abs(ai) < abs(aj)
		}
		return ai < aj
	})
	return out
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func memoKey(k int, rest []int32) string {
	b := make([]byte, 0, 4*len(rest)+8)
	b = append(b, []byte(fmt.Sprintf("%d|", k))...)
	for _, r := range rest {
		b = append(b, []byte(fmt.Sprintf("%d,", r))...)
	}
	return string(b)
}
