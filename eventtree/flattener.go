package eventtree

import "github.com/scramgo/ftcore/ftgraph"

// Flattener walks an EventTree and synthesizes one top gate per reachable
// sequence in the shared ftgraph.Graph, per spec.md §4.7.
//
// Grounded on original_source/src/event_tree_analysis.cc's CollectSequences
// (the per-path traversal) and Analyze (the per-sequence gate synthesis):
// a sequence reached by more than one path gets an OR of that path's
// per-path AND-of-formulas, exactly mirroring PathCollector/SequenceCollector.
type Flattener struct {
	g *ftgraph.Graph
}

// NewFlattener constructs a Flattener writing synthesized gates into g.
func NewFlattener(g *ftgraph.Graph) *Flattener {
	return &Flattener{g: g}
}

// pathState accumulates one path's formula and expression lists, plus any
// house-event overrides a SetHouseEvent instruction on that path installed.
// It is cloned at every branch point so sibling paths (fork arms, linked
// continuations) never share backing arrays or a house-event map.
type pathState struct {
	formulas       []int32
	expressions    []string
	houseOverrides map[int32]bool
}

func (p pathState) clone() pathState {
	clone := pathState{
		formulas:    append([]int32(nil), p.formulas...),
		expressions: append([]string(nil), p.expressions...),
	}
	if len(p.houseOverrides) > 0 {
		clone.houseOverrides = make(map[int32]bool, len(p.houseOverrides))
		for idx, v := range p.houseOverrides {
			clone.houseOverrides[idx] = v
		}
	}
	return clone
}

// Result is the outcome of flattening one EventTree.
type Result struct {
	// SequenceGates maps each reached, non-linked sequence's name to the
	// signed reference representing it: a synthesized AND/OR/NULL gate, or,
	// when the sequence's paths reduce to a single formula, that formula
	// reference itself (a leaf, an existing gate, or a negated reference).
	SequenceGates map[string]int32
	// SequenceExpressions maps each sequence's name to the raw expression
	// identifiers collected along every path that reached it, unevaluated.
	SequenceExpressions map[string][]string
	// SequenceHouseEvents maps each sequence's name to the house-event
	// overrides any SetHouseEvent instruction installed along a path that
	// reached it. These are scoped to the sequence alone — an embedder must
	// apply them only while analysing that sequence's own top gate, never by
	// mutating the shared ftgraph.Graph's house-event registry (spec.md
	// §4.7). Absent when no path to the sequence carried a SetHouseEvent.
	SequenceHouseEvents map[string]map[int32]bool
}

// Flatten walks tree from its initial state and synthesizes a gate for every
// sequence reached without passing through a Link.
func (f *Flattener) Flatten(tree *EventTree) (Result, error) {
	collected := make(map[string][]pathState)
	if err := f.walkBranch(tree.InitialState, pathState{}, false, collected); err != nil {
		return Result{}, err
	}

	result := Result{
		SequenceGates:       make(map[string]int32, len(collected)),
		SequenceExpressions: make(map[string][]string, len(collected)),
		SequenceHouseEvents: make(map[string]map[int32]bool, len(collected)),
	}
	for name, paths := range collected {
		gate, err := f.synthesize(paths)
		if err != nil {
			return Result{}, err
		}
		result.SequenceGates[name] = gate
		var overrides map[int32]bool
		for _, p := range paths {
			result.SequenceExpressions[name] = append(result.SequenceExpressions[name], p.expressions...)
			for idx, v := range p.houseOverrides {
				if overrides == nil {
					overrides = make(map[int32]bool)
				}
				overrides[idx] = v
			}
		}
		if overrides != nil {
			result.SequenceHouseEvents[name] = overrides
		}
	}
	return result, nil
}

// walkBranch executes b's instructions against ctx (cloning it first so the
// caller's copy is untouched), then continues into b's target. isLinked,
// once true anywhere along a path, suppresses that path's eventual sequence
// registration — set either here (a bare Link in a Branch's instruction
// list) or within the terminal Sequence's own instructions.
func (f *Flattener) walkBranch(b *Branch, ctx pathState, isLinked bool, collected map[string][]pathState) error {
	ctx = ctx.clone()
	for _, instr := range b.Instructions {
		if link, ok := instr.(Link); ok {
			if err := f.walkBranch(link.Target.InitialState, ctx.clone(), false, collected); err != nil {
				return err
			}
			isLinked = true
			continue
		}
		if err := f.apply(instr, &ctx); err != nil {
			return err
		}
	}
	return f.walkTarget(b.Target, ctx, isLinked, collected)
}

func (f *Flattener) walkTarget(t BranchTarget, ctx pathState, isLinked bool, collected map[string][]pathState) error {
	switch v := t.(type) {
	case *Fork:
		for _, path := range v.Paths {
			if err := f.walkBranch(path, ctx, isLinked, collected); err != nil {
				return err
			}
		}
		return nil
	case *Sequence:
		seqCtx := ctx.clone()
		linked := isLinked
		for _, instr := range v.Instructions {
			if link, ok := instr.(Link); ok {
				if err := f.walkBranch(link.Target.InitialState, seqCtx.clone(), false, collected); err != nil {
					return err
				}
				linked = true
				continue
			}
			if err := f.apply(instr, &seqCtx); err != nil {
				return err
			}
		}
		if !linked {
			collected[v.Name] = append(collected[v.Name], seqCtx)
		}
		return nil
	default:
		return &UnknownBranchTargetError{Target: t}
	}
}

func (f *Flattener) apply(instr Instruction, ctx *pathState) error {
	switch v := instr.(type) {
	case SetHouseEvent:
		if ctx.houseOverrides == nil {
			ctx.houseOverrides = make(map[int32]bool)
		}
		ctx.houseOverrides[v.Index] = v.Value
	case CollectFormula:
		ctx.formulas = append(ctx.formulas, v.Formula)
	case CollectExpression:
		ctx.expressions = append(ctx.expressions, v.Expression)
	default:
		return &UnknownInstructionError{Instruction: instr}
	}
	return nil
}

// synthesize builds the single top gate representing every path that
// reached a sequence: an AND of each path's own formula list, unioned via OR
// across paths. A path with no formulas contributes no term to that OR, even
// when it collected expressions. When no path contributed a formula, the
// sequence gets a NULL gate marked unity (always true); expressions never
// affect the gate.
func (f *Flattener) synthesize(paths []pathState) (int32, error) {
	var pathGates []int32
	for _, p := range paths {
		switch len(p.formulas) {
		case 0:
			continue
		case 1:
			pathGates = append(pathGates, p.formulas[0])
		default:
			and := f.g.NewGate(ftgraph.AND)
			for _, fml := range p.formulas {
				if err := f.g.AddArg(and, fml); err != nil {
					return 0, err
				}
			}
			pathGates = append(pathGates, and)
		}
	}

	switch len(pathGates) {
	case 0:
		gate := f.g.NewGate(ftgraph.NULL)
		if err := f.g.MarkUnity(gate); err != nil {
			return 0, err
		}
		return gate, nil
	case 1:
		return pathGates[0], nil
	default:
		or := f.g.NewGate(ftgraph.OR)
		for _, pg := range pathGates {
			if err := f.g.AddArg(or, pg); err != nil {
				return 0, err
			}
		}
		return or, nil
	}
}
