package ftgraph

// Graph is the arena that owns every gate in a fault tree. Leaves (basic and
// house events) occupy index range [1, numLeaves] and are never stored as
// gate nodes — the arena only ever needs to know their count to decide
// whether an index refers to a leaf or to a gate it owns.
//
// Graph is not safe for concurrent use; see the package doc comment.
type Graph struct {
	numLeaves  int32
	nextGate   int32
	gates      map[int32]*gate
	houseTruth map[int32]bool // index -> fixed truth value, for indices registered as house events
}

// NewGraph constructs an empty arena over numLeaves basic/house events
// (indices [1, numLeaves]). Gate indices are minted starting at numLeaves+1.
func NewGraph(numLeaves int32) *Graph {
	return &Graph{
		numLeaves:  numLeaves,
		nextGate:   numLeaves + 1,
		gates:      make(map[int32]*gate),
		houseTruth: make(map[int32]bool),
	}
}

// NumLeaves returns B, the frozen count of basic/house event indices.
func (g *Graph) NumLeaves() int32 { return g.numLeaves }

// IsLeaf reports whether index refers to a basic or house event rather than
// a gate owned by this arena.
func (g *Graph) IsLeaf(index int32) bool {
	i := abs32(index)
	if i == 0 || i > g.numLeaves {
		return false
	}
	_, isGate := g.gates[i]
	return !isGate
}

// MarkHouseEvent registers index as a house event fixed to value. House
// events must be within [1, numLeaves]; they are ordinary leaves to every
// method except ConstantPropagator, which consults this registry.
func (g *Graph) MarkHouseEvent(index int32, value bool) {
	g.houseTruth[abs32(index)] = value
}

// HouseValue reports the fixed truth value of index and whether it is
// registered as a house event at all.
func (g *Graph) HouseValue(index int32) (value bool, isHouse bool) {
	v, ok := g.houseTruth[abs32(index)]
	return v, ok
}

// NewGate mints a fresh gate index strictly greater than any index this
// arena has handed out so far, and registers it with the given kind.
func (g *Graph) NewGate(kind Kind) int32 {
	idx := g.nextGate
	g.nextGate++
	g.gates[idx] = &gate{index: idx, kind: kind}
	return idx
}

// NewAtleastGate mints a fresh ATLEAST(k, ...) gate.
func (g *Graph) NewAtleastGate(k int) int32 {
	idx := g.NewGate(ATLEAST)
	g.gates[idx].atleast = k
	return idx
}

// lookup resolves index to its gate, reporting ErrNotAGate when index is a
// registered leaf (a gate-only operation was asked to operate on a basic or
// house event) and ErrIndexNotFound when the arena never assigned index at
// all.
func (g *Graph) lookup(op string, index int32) (*gate, error) {
	gt, ok := g.gates[abs32(index)]
	if !ok {
		if g.IsLeaf(index) {
			return nil, newIndexError(op, index, ErrNotAGate)
		}
		return nil, newIndexError(op, index, ErrIndexNotFound)
	}
	return gt, nil
}

// KindOf returns the Kind of the gate at index (sign ignored).
func (g *Graph) KindOf(index int32) (Kind, error) {
	gt, err := g.lookup("KindOf", index)
	if err != nil {
		return 0, err
	}
	return gt.kind, nil
}

// SetKind overwrites the Kind of the gate at index, used by Normalizer when
// rewriting NOR/NAND/XOR/ATLEAST in place.
func (g *Graph) SetKind(index int32, kind Kind) error {
	gt, err := g.lookup("SetKind", index)
	if err != nil {
		return err
	}
	gt.kind = kind
	return nil
}

// AtleastK returns the vote count of an ATLEAST gate.
func (g *Graph) AtleastK(index int32) (int, error) {
	gt, err := g.lookup("AtleastK", index)
	if err != nil {
		return 0, err
	}
	return gt.atleast, nil
}

// ArgsOf returns the signed leaf arguments and signed child-gate arguments of
// the gate at index, in ascending order. The returned slices are owned by
// the arena; callers must not mutate them.
func (g *Graph) ArgsOf(index int32) (leafArgs, gateArgs []int32, err error) {
	gt, err := g.lookup("ArgsOf", index)
	if err != nil {
		return nil, nil, err
	}
	return gt.args, gt.gates, nil
}

// ParentsOf returns the unsigned indices of every gate that currently
// references index as an argument (leaf or gate-child).
func (g *Graph) ParentsOf(index int32) ([]int32, error) {
	gt, err := g.lookup("ParentsOf", index)
	if err != nil {
		return nil, err
	}
	return gt.parents, nil
}

// IsNull reports whether the gate at index has collapsed to a contradiction
// (AND containing both x and -x).
func (g *Graph) IsNull(index int32) (bool, error) {
	gt, err := g.lookup("IsNull", index)
	if err != nil {
		return false, err
	}
	return gt.null, nil
}

// IsUnity reports whether the gate at index has collapsed to a tautology
// (OR containing both x and -x).
func (g *Graph) IsUnity(index int32) (bool, error) {
	gt, err := g.lookup("IsUnity", index)
	if err != nil {
		return false, err
	}
	return gt.unity, nil
}

// AddArg appends signedChild to parent's argument set. If child is a leaf
// index (per IsLeaf), it is added to the leaf-argument set; otherwise it is
// treated as a gate-child. If the complement of signedChild is already
// present, the parent collapses: AND gates become null, OR gates become
// unity, and the addition is still recorded (matching the teacher SimpleGate
// semantics in original_source/src/indexed_fault_tree.h, which records the
// member before reporting the collapse to the caller).
func (g *Graph) AddArg(parent int32, signedChild int32) error {
	pg, err := g.lookup("AddArg", parent)
	if err != nil {
		return err
	}
	if signedChild == 0 {
		return newIndexError("AddArg", signedChild, ErrIndexNotFound)
	}

	if g.IsLeaf(signedChild) {
		if containsSorted(pg.args, -signedChild) {
			g.collapse(pg)
		}
		var inserted bool
		pg.args, inserted = insertSorted(pg.args, signedChild)
		_ = inserted
		return nil
	}

	child, err := g.lookup("AddArg", signedChild)
	if err != nil {
		return err
	}
	if err := g.checkAcyclic(pg.index, child.index); err != nil {
		return err
	}
	if containsSorted(pg.gates, -signedChild) {
		g.collapse(pg)
	}
	var inserted bool
	pg.gates, inserted = insertSorted(pg.gates, signedChild)
	if inserted {
		child.parents, _ = insertSorted(child.parents, pg.index)
	}
	return nil
}

func (g *Graph) collapse(pg *gate) {
	switch pg.kind {
	case AND:
		pg.null = true
	case OR:
		pg.unity = true
	}
}

// RemoveArg removes signedChild from parent's argument set, maintaining the
// child's back-reference if the removed argument was the last edge from
// parent to that gate.
func (g *Graph) RemoveArg(parent int32, signedChild int32) error {
	pg, err := g.lookup("RemoveArg", parent)
	if err != nil {
		return err
	}
	if g.IsLeaf(signedChild) {
		pg.args, _ = removeSorted(pg.args, signedChild)
		return nil
	}
	child, err := g.lookup("RemoveArg", signedChild)
	if err != nil {
		return err
	}
	var removed bool
	pg.gates, removed = removeSorted(pg.gates, signedChild)
	if removed && !containsSorted(pg.gates, -signedChild) {
		child.parents, _ = removeSorted(child.parents, pg.index)
	}
	return nil
}

// ReplaceArg atomically swaps oldSigned for newSigned in parent's argument
// set, updating both children's parent back-references as needed.
func (g *Graph) ReplaceArg(parent int32, oldSigned, newSigned int32) error {
	if err := g.RemoveArg(parent, oldSigned); err != nil {
		return err
	}
	return g.AddArg(parent, newSigned)
}

// checkAcyclic walks from candidate child toward its own gate-children,
// failing if it reaches parent — i.e. refuses to let parent become its own
// descendant. This is the "debug builds only" acyclicity check of spec.md
// §4.1, always run here since the arena has no separate release mode.
func (g *Graph) checkAcyclic(parent, child int32) error {
	if parent == child {
		return newIndexError("AddArg", child, ErrCycle)
	}
	seen := make(map[int32]bool)
	var walk func(idx int32) bool
	walk = func(idx int32) bool {
		if idx == parent {
			return true
		}
		if seen[idx] {
			return false
		}
		seen[idx] = true
		gt := g.gates[idx]
		if gt == nil {
			return false
		}
		for _, c := range gt.gates {
			if walk(abs32(c)) {
				return true
			}
		}
		return false
	}
	if walk(child) {
		return newIndexError("AddArg", child, ErrCycle)
	}
	return nil
}

// MarkNull forces the gate at index into the null (always-false) state,
// used by ConstantPropagator when a house-event fold collapses a gate
// without AddArg itself observing an x/-x collision.
func (g *Graph) MarkNull(index int32) error {
	gt, err := g.lookup("MarkNull", index)
	if err != nil {
		return err
	}
	gt.null = true
	return nil
}

// MarkUnity forces the gate at index into the unity (always-true) state.
func (g *Graph) MarkUnity(index int32) error {
	gt, err := g.lookup("MarkUnity", index)
	if err != nil {
		return err
	}
	gt.unity = true
	return nil
}

// ResetArgs clears every argument of the gate at index (leaf and gate-child
// alike), removing the corresponding parent back-references from any
// gate-children it previously held. Used by Normalizer when rewriting a
// gate's content in place (XOR/ATLEAST unrolling, NOR/NAND/NOT collapse).
func (g *Graph) ResetArgs(index int32) error {
	gt, err := g.lookup("ResetArgs", index)
	if err != nil {
		return err
	}
	for _, c := range gt.gates {
		if child := g.gates[abs32(c)]; child != nil {
			child.parents, _ = removeSorted(child.parents, gt.index)
		}
	}
	gt.args = nil
	gt.gates = nil
	gt.null = false
	gt.unity = false
	return nil
}

// DetachGate removes the gate at index from every remaining parent's
// argument set without touching the gate's own arguments, used when a gate
// is spliced into its sole parent (complement propagation / gate joining).
func (g *Graph) DetachGate(index int32) {
	gt := g.gates[abs32(index)]
	if gt == nil {
		return
	}
	for _, p := range append([]int32(nil), gt.parents...) {
		if pg := g.gates[p]; pg != nil {
			pg.gates, _ = removeSorted(pg.gates, index)
			pg.gates, _ = removeSorted(pg.gates, -index)
		}
	}
	delete(g.gates, gt.index)
}
