package preprocess

import (
	"context"

	"github.com/scramgo/ftcore/ftgraph"
)

// ConstantPropagator folds house events (fixed TRUE/FALSE leaves) through a
// normalized graph, per spec.md §4.3: dropping arguments the fold resolves
// to the gate's identity element, collapsing the gate to null/unity when the
// fold resolves to its absorbing element, and propagating that collapse
// upward through a bottom-up (post-order) pass.
//
// Grounded on original_source/src/indexed_fault_tree.h's
// PropagateConstants(gate, processed_gates), reshaped as the teacher's
// post-order DFS walk (dfs/dfs.go's traverse, minus hooks/depth limiting).
type ConstantPropagator struct {
	g         *ftgraph.Graph
	ctx       context.Context
	visited   map[int32]bool
	overrides map[int32]bool
}

// NewConstantPropagator constructs a propagator over g.
func NewConstantPropagator(g *ftgraph.Graph, ctx context.Context) *ConstantPropagator {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ConstantPropagator{g: g, ctx: ctx, visited: make(map[int32]bool)}
}

// SetHouseOverrides installs house-event values that take precedence over
// g's own registered house truth for the next Propagate call, without
// mutating g itself. This lets a caller scope one event-tree sequence's
// SetHouseEvent instructions (spec.md §4.7) to that sequence alone, since
// g's registry is shared across every target analyzed against it.
func (p *ConstantPropagator) SetHouseOverrides(overrides map[int32]bool) {
	p.overrides = overrides
}

// houseValue reports index's effective house-event value: an override, if
// one is installed for it, otherwise g's own registered value.
func (p *ConstantPropagator) houseValue(index int32) (value bool, isHouse bool) {
	if v, ok := p.overrides[abs(index)]; ok {
		return v, true
	}
	return p.g.HouseValue(index)
}

// Propagate walks the graph from root bottom-up, folding house events.
// It reports whether the root itself collapsed to null or unity, since in
// that case there is no gate left to hand to the next pipeline stage
// (spec.md §8's empty-fault-tree boundary behaviour).
func (p *ConstantPropagator) Propagate(root int32) (rootNull, rootUnity bool, err error) {
	if err := p.visit(root); err != nil {
		return false, false, err
	}
	rootNull, err = p.g.IsNull(root)
	if err != nil {
		return false, false, err
	}
	rootUnity, err = p.g.IsUnity(root)
	if err != nil {
		return false, false, err
	}
	return rootNull, rootUnity, nil
}

func (p *ConstantPropagator) visit(index int32) error {
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	default:
	}
	if p.visited[index] {
		return nil
	}
	p.visited[index] = true

	_, gateArgs, err := p.g.ArgsOf(index)
	if err != nil {
		return err
	}
	for _, c := range gateArgs {
		if err := p.visit(abs(c)); err != nil {
			return err
		}
	}

	return p.fold(index)
}

// fold applies house-event leaf folding and null/unity child propagation to
// the single gate at index, after all of its children have already been
// folded (post-order precondition).
func (p *ConstantPropagator) fold(index int32) error {
	kind, err := p.g.KindOf(index)
	if err != nil {
		return err
	}
	if kind != ftgraph.OR && kind != ftgraph.AND {
		return nil // NULL passthroughs carry no absorbing/identity semantics here
	}

	leafArgs, gateArgs, err := p.g.ArgsOf(index)
	if err != nil {
		return err
	}

	for _, a := range append([]int32(nil), leafArgs...) {
		fixed, isHouse := p.houseValue(a)
		if !isHouse {
			continue
		}
		effective := fixed
		if a < 0 {
			effective = !fixed
		}
		collapses, drops := absorbingRule(kind, effective)
		if collapses {
			return p.collapse(index, kind)
		}
		if drops {
			if err := p.g.RemoveArg(index, a); err != nil {
				return err
			}
		}
	}

	for _, c := range append([]int32(nil), gateArgs...) {
		childNull, err := p.g.IsNull(abs(c))
		if err != nil {
			return err
		}
		childUnity, err := p.g.IsUnity(abs(c))
		if err != nil {
			return err
		}
		if !childNull && !childUnity {
			continue
		}
		// A negative reference to a child flips which collapse it signals.
		effectiveNull, effectiveUnity := childNull, childUnity
		if c < 0 {
			effectiveNull, effectiveUnity = childUnity, childNull
		}
		switch {
		case kind == ftgraph.AND && effectiveNull:
			return p.collapse(index, kind)
		case kind == ftgraph.OR && effectiveUnity:
			return p.collapse(index, kind)
		default:
			if err := p.g.RemoveArg(index, c); err != nil {
				return err
			}
		}
	}

	return p.elideSingleton(index)
}

// absorbingRule reports, for a gate of kind with an effective house-event
// value, whether the gate collapses outright (AND+false, OR+true) or the
// argument simply drops out as the identity element (AND+true, OR+false).
func absorbingRule(kind ftgraph.Kind, value bool) (collapses, drops bool) {
	switch {
	case kind == ftgraph.AND && !value:
		return true, false
	case kind == ftgraph.AND && value:
		return false, true
	case kind == ftgraph.OR && value:
		return true, false
	default: // OR && !value
		return false, true
	}
}

func (p *ConstantPropagator) collapse(index int32, kind ftgraph.Kind) error {
	if err := p.g.ResetArgs(index); err != nil {
		return err
	}
	if kind == ftgraph.AND {
		return p.g.MarkNull(index)
	}
	return p.g.MarkUnity(index)
}

// elideSingleton marks a gate NULL (transparent) if constant folding left it
// with exactly one argument, per spec.md §4.3's "arity-1 residual" rule. An
// AND/OR of zero remaining arguments is its own identity element: empty AND
// is vacuously true (unity), empty OR is vacuously false (null) — the
// "Empty fault tree" boundary behaviour of spec.md §8.
func (p *ConstantPropagator) elideSingleton(index int32) error {
	leafArgs, gateArgs, err := p.g.ArgsOf(index)
	if err != nil {
		return err
	}
	total := len(leafArgs) + len(gateArgs)
	kind, err := p.g.KindOf(index)
	if err != nil {
		return err
	}
	switch {
	case total == 0:
		if kind == ftgraph.AND {
			return p.g.MarkUnity(index)
		}
		return p.g.MarkNull(index)
	case total == 1:
		return p.g.SetKind(index, ftgraph.NULL)
	default:
		return nil
	}
}
