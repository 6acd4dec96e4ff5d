package ftcore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/scramgo/ftcore/cutset"
	"github.com/scramgo/ftcore/eventtree"
	"github.com/scramgo/ftcore/ftgraph"
	"github.com/scramgo/ftcore/preprocess"
)

// target is one gate Analyze must run the full pipeline over: either a
// declared FaultTree, or one sequence an event tree flattened down to a
// synthetic top gate. houseOverrides carries any SetHouseEvent values a
// path to this sequence installed — scoped to this target alone, never
// written into the shared graph (spec.md §4.7).
type target struct {
	id             string
	root           int32
	houseOverrides map[int32]bool
}

// Analyze builds the indexed graph for m, runs every declared fault tree
// (and every event-tree sequence, once flattened) through the preprocessing
// pipeline and cutset.Engine, and returns the combined Result.
//
// Grounded on original_source/src/indexed_fault_tree.h's top-level
// ProcessIndexedFaultTree sequencing (unroll, propagate constants, propagate
// complements, join/null-eliminate, detect modules, find MCS), generalized
// to Go's explicit multi-stage error returns instead of exception unwinding.
func Analyze(ctx context.Context, m Model, settings Settings) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validateSettings(settings); err != nil {
		return Result{}, err
	}

	g, err := buildGraph(m)
	if err != nil {
		return Result{}, err
	}
	if settings.StrictInvariants {
		if err := ftgraph.ValidateAcyclic(g); err != nil {
			return Result{}, &InternalError{Stage: "build-graph", Err: err}
		}
	}

	targets, err := gatherTargets(ctx, g, m)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		MCS:         make(map[string][][]int32, len(targets)),
		ModuleMCS:   make(map[int32][][]int32),
		Diagnostics: computeDiagnostics(m),
	}

	for _, t := range targets {
		mcs, moduleMCS, orderExceeded, err := analyzeOne(ctx, g, t.root, t.houseOverrides, settings)
		if err != nil {
			return Result{}, fmt.Errorf("ftcore: analyzing %q: %w", t.id, err)
		}
		result.MCS[t.id] = mcs
		for idx, sets := range moduleMCS {
			result.ModuleMCS[idx] = sets
		}
		if orderExceeded {
			result.OrderExceeded = append(result.OrderExceeded, t.id)
		}
	}
	sort.Strings(result.OrderExceeded)

	return result, nil
}

func validateSettings(s Settings) error {
	if s.LimitOrder <= 0 {
		return &InvalidModelError{Reason: "settings.LimitOrder must be > 0"}
	}
	if s.ProbabilityAnalysis && s.MissionTime <= 0 {
		return &InvalidModelError{Reason: "settings.MissionTime must be > 0 when ProbabilityAnalysis is set"}
	}
	return nil
}

// buildGraph mints one ftgraph gate per Model.Gate, in ascending index
// order, then wires every argument. Gates must already occupy the
// contiguous range [NumLeaves+1, NumLeaves+len(Gates)] since the arena
// mints indices sequentially (see Model.Gates's doc comment).
func buildGraph(m Model) (*ftgraph.Graph, error) {
	g := ftgraph.NewGraph(m.NumLeaves)
	for _, he := range m.HouseEvents {
		g.MarkHouseEvent(he.Index, he.State)
	}

	sorted := append([]Gate(nil), m.Gates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	expected := m.NumLeaves + 1
	for _, gt := range sorted {
		if gt.Index != expected {
			return nil, &InvalidModelError{Reason: fmt.Sprintf(
				"gate %q: expected contiguous index %d, got %d", gt.ID, expected, gt.Index)}
		}
		if gt.Kind == ftgraph.ATLEAST {
			g.NewAtleastGate(gt.AtleastK)
		} else {
			g.NewGate(gt.Kind)
		}
		expected++
	}

	for _, gt := range sorted {
		for _, arg := range gt.Arguments {
			if err := g.AddArg(gt.Index, arg); err != nil {
				return nil, &InvalidModelError{
					Reason: fmt.Sprintf("gate %q argument %d", gt.ID, arg),
					Err:    err,
				}
			}
		}
	}
	return g, nil
}

// gatherTargets collects one target per declared FaultTree plus one per
// event-tree sequence, flattening every EventTree in m first.
func gatherTargets(ctx context.Context, g *ftgraph.Graph, m Model) ([]target, error) {
	targets := make([]target, 0, len(m.FaultTrees))
	for _, ft := range m.FaultTrees {
		if _, err := g.KindOf(ft.TopGateIndex); err != nil {
			return nil, &InvalidModelError{
				Reason: fmt.Sprintf("fault tree %q: top gate %d", ft.ID, ft.TopGateIndex),
				Err:    err,
			}
		}
		targets = append(targets, target{id: ft.ID, root: ft.TopGateIndex})
	}

	flattener := eventtree.NewFlattener(g)
	for _, et := range m.EventTrees {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		flat, err := flattener.Flatten(et)
		if err != nil {
			return nil, &InvalidModelError{Reason: fmt.Sprintf("event tree %q", et.Name), Err: err}
		}
		names := make([]string, 0, len(flat.SequenceGates))
		for name := range flat.SequenceGates {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			root := flat.SequenceGates[name]
			if root < 0 || g.IsLeaf(root) {
				// The sequence resolved straight to one signed formula
				// reference; wrap it so the pipeline starts from a positive gate.
				wrapper := g.NewGate(ftgraph.OR)
				if err := g.AddArg(wrapper, root); err != nil {
					return nil, &InvalidModelError{Reason: fmt.Sprintf("event tree %q sequence %q", et.Name, name), Err: err}
				}
				root = wrapper
			}
			targets = append(targets, target{
				id:             et.Name + "/" + name,
				root:           root,
				houseOverrides: flat.SequenceHouseEvents[name],
			})
		}
	}
	return targets, nil
}

// analyzeOne runs the full preprocess+cutset pipeline over one top gate.
// houseOverrides, when non-nil, scopes this target's constant propagation to
// its own SetHouseEvent values instead of the graph's shared registry.
func analyzeOne(ctx context.Context, g *ftgraph.Graph, root int32, houseOverrides map[int32]bool, settings Settings) (
	mcs [][]int32, moduleMCS map[int32][][]int32, orderExceeded bool, err error,
) {
	norm := preprocess.NewNormalizer(g, ctx)
	root, err = norm.Normalize(root)
	if err != nil {
		return nil, nil, false, classifyPreprocessError("normalize", err)
	}
	if settings.StrictInvariants {
		if err := ftgraph.ValidateKinds(g, ftgraph.OR, ftgraph.AND, ftgraph.NULL); err != nil {
			return nil, nil, false, &InternalError{Stage: "normalize", Err: err}
		}
	}

	cp := preprocess.NewConstantPropagator(g, ctx)
	if houseOverrides != nil {
		cp.SetHouseOverrides(houseOverrides)
	}
	rootNull, rootUnity, err := cp.Propagate(root)
	if err != nil {
		return nil, nil, false, classifyPreprocessError("constant-propagate", err)
	}
	if norm.RootSign < 0 {
		rootNull, rootUnity = rootUnity, rootNull
	}
	switch {
	case rootNull:
		return [][]int32{}, nil, false, nil
	case rootUnity:
		return [][]int32{{}}, nil, false, nil
	}
	if settings.StrictInvariants {
		if err := ftgraph.ValidateNoHouseReferences(g); err != nil {
			return nil, nil, false, &InternalError{Stage: "constant-propagate", Err: err}
		}
	}

	comp := preprocess.NewComplementPropagator(g)
	root, err = comp.Propagate(root, norm.RootSign)
	if err != nil {
		return nil, nil, false, classifyPreprocessError("complement-propagate", err)
	}
	if settings.StrictInvariants {
		if err := ftgraph.ValidateNoSignedGateChildrenOutsideComplement(g); err != nil {
			return nil, nil, false, &InternalError{Stage: "complement-propagate", Err: err}
		}
	}

	simp := preprocess.NewSimplifier(g)
	simplified, err := simp.Simplify(root)
	if err != nil {
		return nil, nil, false, classifyPreprocessError("simplify", err)
	}
	if !simplified.RootIsGate {
		leaf, sign := splitSigned(simplified.Root)
		if sign < 0 {
			return nil, nil, false, &UnsupportedFeatureError{Feature: "non-coherent top event (negated leaf)"}
		}
		return [][]int32{{leaf}}, nil, false, nil
	}
	root = simplified.Root
	if settings.StrictInvariants {
		if err := ftgraph.ValidateNoNestedSameKind(g, root); err != nil {
			return nil, nil, false, &InternalError{Stage: "simplify", Err: err}
		}
	}

	detector := preprocess.NewModuleDetector(g)
	modules, err := detector.Detect(root)
	if err != nil {
		return nil, nil, false, classifyPreprocessError("detect-modules", err)
	}

	engine := cutset.NewEngine(g, modules, settings.LimitOrder, settings.MaxWorkers)
	topMCS, perModuleMCS, err := engine.Analyze(ctx, root)
	if err != nil {
		return nil, nil, false, classifyCutsetError(err)
	}

	return topMCS, perModuleMCS, len(topMCS) == 0, nil
}

func splitSigned(ref int32) (index, sign int32) {
	if ref < 0 {
		return -ref, -1
	}
	return ref, 1
}

func classifyPreprocessError(stage string, err error) error {
	switch {
	case errors.Is(err, preprocess.ErrUnsupportedXorArity):
		return &UnsupportedFeatureError{Feature: "non-binary XOR", Err: err}
	case errors.Is(err, preprocess.ErrAtleastKOutOfRange):
		return &InvalidModelError{Reason: "ATLEAST vote count out of range", Err: err}
	default:
		return &InternalError{Stage: stage, Err: err}
	}
}

func classifyCutsetError(err error) error {
	switch {
	case errors.Is(err, cutset.ErrNonCoherent):
		return &UnsupportedFeatureError{Feature: "non-coherent top event", Err: err}
	case errors.Is(err, cutset.ErrUnexpectedCollision):
		return &InternalError{Stage: "cutset", Err: err}
	default:
		return &InternalError{Stage: "cutset", Err: err}
	}
}
