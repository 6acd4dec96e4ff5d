package preprocess

import "github.com/scramgo/ftcore/ftgraph"

// ComplementPropagator pushes negations down to the leaves, eliminating any
// need for negative gate-child references. It complements OR, AND and NULL
// gates only; it does not rewrite NOR/NAND gates, which Normalizer has
// already removed by the time this stage runs.
//
// Grounded on original_source/src/indexed_fault_tree.h's PropagateComplements
// and its gate_complements cache: a gate shared between a positive and a
// negative parent is materialized as its complement exactly once and reused.
type ComplementPropagator struct {
	g           *ftgraph.Graph
	resolved    map[int32]bool  // gates whose gate-child refs are already all-positive
	complements map[int32]int32 // positive gate index -> its materialized complement
}

// NewComplementPropagator constructs a propagator over g.
func NewComplementPropagator(g *ftgraph.Graph) *ComplementPropagator {
	return &ComplementPropagator{
		g:           g,
		resolved:    make(map[int32]bool),
		complements: make(map[int32]int32),
	}
}

// Propagate resolves root under rootSign (the polarity Normalizer recorded
// for the logical top event) and returns the index of a gate whose positive
// reading equals the original signed root.
func (c *ComplementPropagator) Propagate(root, rootSign int32) (int32, error) {
	return c.resolve(root, rootSign)
}

// resolve returns a gate index g such that reading g positively is
// equivalent to reading index under sign. When sign is positive this is
// index itself, rewired so every one of its gate-child references is
// positive. When sign is negative this is index's materialized complement.
func (c *ComplementPropagator) resolve(index, sign int32) (int32, error) {
	if sign < 0 {
		return c.complementOf(index)
	}
	if c.resolved[index] {
		return index, nil
	}
	c.resolved[index] = true

	_, gateArgs, err := c.g.ArgsOf(index)
	if err != nil {
		return 0, err
	}
	for _, ref := range append([]int32(nil), gateArgs...) {
		childIdx, childSign := splitSigned(ref)
		resolvedChild, err := c.resolve(childIdx, childSign)
		if err != nil {
			return 0, err
		}
		if resolvedChild != ref {
			if err := c.g.ReplaceArg(index, ref, resolvedChild); err != nil {
				return 0, err
			}
		}
	}
	return index, nil
}

// complementOf returns the materialized complement gate for the (already
// positively-resolved) gate at index, building it on first request and
// reusing it for every subsequent negative reference to the same gate.
func (c *ComplementPropagator) complementOf(index int32) (int32, error) {
	posIdx, err := c.resolve(index, 1)
	if err != nil {
		return 0, err
	}
	if cached, ok := c.complements[posIdx]; ok {
		return cached, nil
	}

	kind, err := c.g.KindOf(posIdx)
	if err != nil {
		return 0, err
	}
	leafArgs, gateArgs, err := c.g.ArgsOf(posIdx)
	if err != nil {
		return 0, err
	}

	newGate := c.g.NewGate(flipKind(kind))
	// Register the cache entry before recursing so a gate that (indirectly)
	// references its own complement terminates instead of looping.
	c.complements[posIdx] = newGate

	for _, a := range leafArgs {
		if err := c.g.AddArg(newGate, -a); err != nil {
			return 0, err
		}
	}
	for _, ref := range gateArgs {
		childIdx, childSign := splitSigned(ref)
		childComplement, err := c.resolve(childIdx, -childSign)
		if err != nil {
			return 0, err
		}
		if err := c.g.AddArg(newGate, childComplement); err != nil {
			return 0, err
		}
	}
	return newGate, nil
}

func flipKind(k ftgraph.Kind) ftgraph.Kind {
	switch k {
	case ftgraph.OR:
		return ftgraph.AND
	case ftgraph.AND:
		return ftgraph.OR
	default:
		return k // NULL's complement is NULL; its single child carries the flip
	}
}

func splitSigned(ref int32) (index, sign int32) {
	if ref < 0 {
		return -ref, -1
	}
	return ref, 1
}
