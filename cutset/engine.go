package cutset

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/scramgo/ftcore/ftgraph"
	"github.com/scramgo/ftcore/preprocess"
)

// Engine builds the SimpleGate representation of a preprocessed fault tree
// and expands it into minimal cut sets, substituting each detected module's
// own MCS set at the point it is referenced.
//
// Grounded on original_source/src/indexed_fault_tree.h's CreateSimpleTree,
// ExpandOrLayer, ExpandAndLayer, and FindMcs; the module-parallel fan-out of
// spec.md §5 is this package's one addition beyond the original's single-
// threaded recursion, using golang.org/x/sync/errgroup.
type Engine struct {
	g          *ftgraph.Graph
	modules    preprocess.Modules
	limitOrder int
	maxWorkers int

	mu    sync.Mutex
	cache map[int32][][]int32 // gate index -> its own minimal cut sets
}

// NewEngine constructs an Engine over g, using modules (as computed by
// preprocess.ModuleDetector) to decide which gate-children are substituted
// as module references rather than expanded inline. maxWorkers <= 0 means
// unbounded fan-out.
func NewEngine(g *ftgraph.Graph, modules preprocess.Modules, limitOrder, maxWorkers int) *Engine {
	return &Engine{
		g:          g,
		modules:    modules,
		limitOrder: limitOrder,
		maxWorkers: maxWorkers,
		cache:      make(map[int32][][]int32),
	}
}

// Analyze computes the minimal cut sets of root, along with the minimal cut
// sets of every module reachable from it (keyed by module gate index), per
// spec.md §4.6 and §5.
func (e *Engine) Analyze(ctx context.Context, root int32) (topMCS [][]int32, perModuleMCS map[int32][][]int32, err error) {
	if err := checkCoherent(e.g, root); err != nil {
		return nil, nil, err
	}
	top, err := e.mcsOf(ctx, root)
	if err != nil {
		return nil, nil, err
	}

	e.mu.Lock()
	perModuleMCS = make(map[int32][][]int32, len(e.modules.ID))
	for idx := range e.modules.ID {
		if mcs, ok := e.cache[idx]; ok {
			perModuleMCS[idx] = mcs
		}
	}
	e.mu.Unlock()

	return top, perModuleMCS, nil
}

// mcsOf returns the memoized minimal cut sets of the gate at idx, computing
// and caching them (and those of every module reachable from idx) on first
// request.
func (e *Engine) mcsOf(ctx context.Context, idx int32) ([][]int32, error) {
	e.mu.Lock()
	if cached, ok := e.cache[idx]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Collect every module reachable from idx through non-module gates, since
	// buildSimpleGate records all of them as module references.
	var moduleChildren []int32
	seen := make(map[int32]bool)
	var collect func(gi int32) error
	collect = func(gi int32) error {
		_, gateArgs, err := e.g.ArgsOf(gi)
		if err != nil {
			return &GateError{Op: "mcsOf", Index: gi, Err: err}
		}
		for _, c := range gateArgs {
			if seen[c] {
				continue
			}
			seen[c] = true
			if e.modules.IsModule[c] {
				moduleChildren = append(moduleChildren, c)
			} else if err := collect(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := collect(idx); err != nil {
		return nil, err
	}

	if len(moduleChildren) > 0 {
		group, gctx := errgroup.WithContext(ctx)
		if e.maxWorkers > 0 {
			group.SetLimit(e.maxWorkers)
		}
		for _, m := range moduleChildren {
			m := m
			group.Go(func() error {
				_, err := e.mcsOf(gctx, m)
				return err
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	sg, err := e.buildSimpleGate(idx)
	if err != nil {
		return nil, err
	}

	var raw [][]int32
	switch sg.Kind {
	case ftgraph.OR:
		raw = e.expandOrLayer(sg)
	case ftgraph.AND:
		raw = e.expandAndLayer(sg)
	default:
		return nil, &GateError{Op: "mcsOf", Index: idx, Err: fmt.Errorf("unexpected gate kind %s", sg.Kind)}
	}

	mcs := minimize(raw, e.limitOrder)

	e.mu.Lock()
	e.cache[idx] = mcs
	e.mu.Unlock()
	return mcs, nil
}

// buildSimpleGate recursively constructs the SimpleGate for idx, stopping
// its descent at any gate flagged a module (those are recorded as opaque
// module references, substituted in during expansion instead).
func (e *Engine) buildSimpleGate(idx int32) (*SimpleGate, error) {
	kind, err := e.g.KindOf(idx)
	if err != nil {
		return nil, &GateError{Op: "buildSimpleGate", Index: idx, Err: err}
	}
	leafArgs, gateArgs, err := e.g.ArgsOf(idx)
	if err != nil {
		return nil, &GateError{Op: "buildSimpleGate", Index: idx, Err: err}
	}

	sg := newSimpleGate(kind)
	for _, a := range leafArgs {
		if a < 0 {
			return nil, ErrNonCoherent
		}
		if !sg.AddBasic(a) {
			return nil, &GateError{Op: "buildSimpleGate", Index: idx, Err: ErrUnexpectedCollision}
		}
	}
	for _, c := range gateArgs {
		if e.modules.IsModule[c] {
			if !sg.AddModule(c) {
				return nil, &GateError{Op: "buildSimpleGate", Index: idx, Err: ErrUnexpectedCollision}
			}
			continue
		}
		child, err := e.buildSimpleGate(c)
		if err != nil {
			return nil, err
		}
		sg.AddChildGate(child)
	}
	return sg, nil
}

// expandOrLayer returns one candidate per basic event, per module product,
// and per AND child's own expansion — the union spec.md §4.6 describes.
func (e *Engine) expandOrLayer(sg *SimpleGate) [][]int32 {
	var candidates [][]int32
	for _, b := range sg.BasicEvents {
		candidates = append(candidates, []int32{b})
	}
	for _, m := range sg.Modules {
		e.mu.Lock()
		products := e.cache[m]
		e.mu.Unlock()
		for _, p := range products {
			candidates = append(candidates, append([]int32(nil), p...))
		}
	}
	for _, child := range sg.Gates {
		candidates = append(candidates, e.expandAndLayer(child)...)
	}
	return e.pruned(candidates)
}

// expandAndLayer cross-products the candidate lists of every module and
// child OR gate, inserting sg's own basic events into every resulting
// product, pruning early whenever a partial product already exceeds
// limitOrder.
func (e *Engine) expandAndLayer(sg *SimpleGate) [][]int32 {
	base := append([]int32(nil), sg.BasicEvents...)
	acc := [][]int32{base}

	var lists [][][]int32
	for _, m := range sg.Modules {
		e.mu.Lock()
		lists = append(lists, e.cache[m])
		e.mu.Unlock()
	}
	for _, child := range sg.Gates {
		lists = append(lists, e.expandOrLayer(child))
	}

	for _, list := range lists {
		var next [][]int32
		for _, prefix := range acc {
			for _, alt := range list {
				merged := unionSorted(prefix, alt)
				if len(merged) > e.limitOrder {
					continue
				}
				next = append(next, merged)
			}
		}
		acc = next
		if len(acc) == 0 {
			break
		}
	}
	return e.pruned(acc)
}

func (e *Engine) pruned(candidates [][]int32) [][]int32 {
	out := candidates[:0:0]
	for _, c := range candidates {
		if len(c) <= e.limitOrder {
			out = append(out, c)
		}
	}
	return out
}

// unionSorted merges two ascending, duplicate-free positive slices.
func unionSorted(a, b []int32) []int32 {
	out := make([]int32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// minimize applies spec.md §4.6's rule: sort candidates by size ascending
// then lexicographically, and keep a candidate only if no already-kept,
// smaller-or-equal candidate is one of its subsets.
func minimize(candidates [][]int32, limitOrder int) [][]int32 {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})

	var mcs [][]int32
	for _, c := range candidates {
		if len(c) > limitOrder {
			continue
		}
		if isSupersetOfAny(c, mcs) {
			continue
		}
		mcs = append(mcs, c)
	}
	return mcs
}

// isSupersetOfAny reports whether any already-accepted candidate in mcs is a
// subset of c (both ascending, duplicate-free).
func isSupersetOfAny(c []int32, mcs [][]int32) bool {
	for _, m := range mcs {
		if len(m) > len(c) {
			continue
		}
		if isSubset(m, c) {
			return true
		}
	}
	return false
}

func isSubset(small, big []int32) bool {
	i := 0
	for _, v := range small {
		for i < len(big) && big[i] < v {
			i++
		}
		if i >= len(big) || big[i] != v {
			return false
		}
		i++
	}
	return true
}

// checkCoherent walks the whole subtree reachable from root, failing with
// ErrNonCoherent if any negative (complemented) leaf reference survived
// preprocessing — this engine only supports coherent fault trees.
func checkCoherent(g *ftgraph.Graph, root int32) error {
	visited := make(map[int32]bool)
	var walk func(idx int32) error
	walk = func(idx int32) error {
		if visited[idx] {
			return nil
		}
		visited[idx] = true
		leafArgs, gateArgs, err := g.ArgsOf(idx)
		if err != nil {
			return &GateError{Op: "checkCoherent", Index: idx, Err: err}
		}
		for _, a := range leafArgs {
			if a < 0 {
				return ErrNonCoherent
			}
		}
		for _, c := range gateArgs {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}
