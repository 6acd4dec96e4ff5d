package ftgraph

import "fmt"

// InvariantError reports a violation of one of invariants I1-I8 (spec.md §3),
// detected by a stage-boundary Validate call. These are bugs, not input
// errors (spec.md §7): reaching one means a pipeline stage corrupted the
// arena rather than rejected bad input up front.
type InvariantError struct {
	Invariant string
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("ftgraph: invariant %s violated: %s", e.Invariant, e.Detail)
}

// ValidateAcyclic checks invariant I2 (no gate is its own ancestor) over the
// whole arena. It is O(V+E) and intended for debug-build stage-boundary
// checks, not for the hot path.
func ValidateAcyclic(g *Graph) error {
	const white, gray, black = 0, 1, 2
	state := make(map[int32]int, len(g.gates))
	var visit func(idx int32) error
	visit = func(idx int32) error {
		switch state[idx] {
		case gray:
			return &InvariantError{Invariant: "I2", Detail: fmt.Sprintf("gate %d is its own ancestor", idx)}
		case black:
			return nil
		}
		state[idx] = gray
		gt := g.gates[idx]
		for _, c := range gt.gates {
			if err := visit(abs32(c)); err != nil {
				return err
			}
		}
		state[idx] = black
		return nil
	}
	for idx := range g.gates {
		if state[idx] == white {
			if err := visit(idx); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateKinds checks that every gate's Kind is a member of allowed,
// enforcing invariants like I3 ("after normalization: every gate kind is one
// of {OR, AND, XOR, ATLEAST, NULL}") and I6's final {OR, AND} set.
func ValidateKinds(g *Graph, allowed ...Kind) error {
	set := make(map[Kind]bool, len(allowed))
	for _, k := range allowed {
		set[k] = true
	}
	for idx, gt := range g.gates {
		if !set[gt.kind] {
			return &InvariantError{
				Invariant: "I3/I6",
				Detail:    fmt.Sprintf("gate %d has disallowed kind %s", idx, gt.kind),
			}
		}
	}
	return nil
}

// ValidateNoHouseReferences checks invariant I4's first clause: no gate
// references a house-event leaf once constant propagation has run.
func ValidateNoHouseReferences(g *Graph) error {
	for idx, gt := range g.gates {
		for _, a := range gt.args {
			if _, isHouse := g.HouseValue(a); isHouse {
				return &InvariantError{
					Invariant: "I4",
					Detail:    fmt.Sprintf("gate %d references house event %d", idx, abs32(a)),
				}
			}
		}
	}
	return nil
}

// ValidateNoSignedGateChildrenOutsideComplement checks invariant I5: once
// complement propagation has run, signs appear only on leaf arguments, never
// on gate-child references (negative gate-child references come from the
// model itself or from Normalizer's NOR/NAND/NOT sign flips, and
// ComplementPropagator replaces each with a positive reference to the
// materialized complement gate).
func ValidateNoSignedGateChildrenOutsideComplement(g *Graph) error {
	for idx, gt := range g.gates {
		for _, c := range gt.gates {
			if c < 0 {
				return &InvariantError{
					Invariant: "I5",
					Detail:    fmt.Sprintf("gate %d has a signed gate-child reference %d", idx, c),
				}
			}
		}
	}
	return nil
}

// ValidateNoNestedSameKind checks invariant I6's structural clauses: no OR
// child of an OR parent, no AND child of an AND parent, and no gate has
// exactly one argument total (leaf+gate) unless it is NULL or it is root.
// A single-argument NULL gate below the root, or a single-argument root of
// any kind, is not reported.
func ValidateNoNestedSameKind(g *Graph, root int32) error {
	for idx, gt := range g.gates {
		total := len(gt.args) + len(gt.gates)
		if total == 1 && gt.kind != NULL && int32(idx) != root {
			return &InvariantError{
				Invariant: "I6",
				Detail:    fmt.Sprintf("gate %d has a single argument but kind %s", idx, gt.kind),
			}
		}
		for _, c := range gt.gates {
			child := g.gates[abs32(c)]
			if child == nil {
				continue
			}
			if child.kind == gt.kind && (gt.kind == OR || gt.kind == AND) {
				return &InvariantError{
					Invariant: "I6",
					Detail:    fmt.Sprintf("gate %d (%s) has same-kind child %d", idx, gt.kind, child.index),
				}
			}
		}
	}
	return nil
}
