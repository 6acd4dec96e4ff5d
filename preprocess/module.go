package preprocess

import (
	"math"
	"sort"

	"github.com/scramgo/ftcore/ftgraph"
)

// ModuleDetector runs a single Euler-tour DFS from the root, timestamping
// every gate with (enter, exit) and every leaf with the [min, max] range of
// times it was visited across however many places it occurs, then flags as a
// module any non-root, single-parent gate whose reachable leaves' recorded
// visit range lies entirely inside its own (enter, exit) window — spec.md
// §4.5.
//
// Grounded on original_source/src/indexed_fault_tree.h's
// AssignTiming/FindOriginalModules, reshaped as the teacher's dfs/cycle.go
// three-color-free post-order walk (this graph only has OR/AND gates left,
// so no three-color cycle bookkeeping is needed, only a once-visited set to
// avoid re-timing a gate reached through more than one parent).
type ModuleDetector struct {
	g *ftgraph.Graph
}

// NewModuleDetector constructs a detector over g.
func NewModuleDetector(g *ftgraph.Graph) *ModuleDetector {
	return &ModuleDetector{g: g}
}

// Modules is the result of a Detect call.
type Modules struct {
	// IsModule reports, per gate index, whether it was flagged a module.
	IsModule map[int32]bool
	// ID assigns each module gate a dense index from a disjoint 1..N range,
	// in ascending gate-index order, for use as cutset.SimpleGate module
	// arguments.
	ID map[int32]int32
}

// Detect computes the module flags and IDs for the graph reachable from root.
func (m *ModuleDetector) Detect(root int32) (Modules, error) {
	timing := make(map[int32][2]int)
	leafVisit := make(map[int32][2]int)
	visitedGate := make(map[int32]bool)
	tick := 0

	var assign func(idx int32) error
	assign = func(idx int32) error {
		if visitedGate[idx] {
			return nil // already timed via an earlier parent; its range is reused as-is
		}
		visitedGate[idx] = true
		tick++
		enter := tick

		leafArgs, gateArgs, err := m.g.ArgsOf(idx)
		if err != nil {
			return err
		}
		for _, a := range leafArgs {
			li := abs(a)
			tick++
			t := tick
			if rec, ok := leafVisit[li]; ok {
				if t < rec[0] {
					rec[0] = t
				}
				if t > rec[1] {
					rec[1] = t
				}
				leafVisit[li] = rec
			} else {
				leafVisit[li] = [2]int{t, t}
			}
		}
		for _, c := range gateArgs {
			if err := assign(abs(c)); err != nil {
				return err
			}
		}
		tick++
		timing[idx] = [2]int{enter, tick}
		return nil
	}
	if err := assign(root); err != nil {
		return Modules{}, err
	}

	isModule := make(map[int32]bool)
	memo := make(map[int32][2]int)
	var check func(idx int32) ([2]int, error)
	check = func(idx int32) ([2]int, error) {
		if r, ok := memo[idx]; ok {
			return r, nil
		}
		leafArgs, gateArgs, err := m.g.ArgsOf(idx)
		if err != nil {
			return [2]int{}, err
		}
		minT, maxT := math.MaxInt, math.MinInt
		for _, a := range leafArgs {
			rec := leafVisit[abs(a)]
			if rec[0] < minT {
				minT = rec[0]
			}
			if rec[1] > maxT {
				maxT = rec[1]
			}
		}
		for _, c := range gateArgs {
			r, err := check(abs(c))
			if err != nil {
				return [2]int{}, err
			}
			if r[0] < minT {
				minT = r[0]
			}
			if r[1] > maxT {
				maxT = r[1]
			}
		}
		memo[idx] = [2]int{minT, maxT}

		parents, err := m.g.ParentsOf(idx)
		if err != nil {
			return [2]int{}, err
		}
		t := timing[idx]
		if idx != root && len(parents) <= 1 && minT >= t[0] && maxT <= t[1] {
			isModule[idx] = true
		}
		return [2]int{minT, maxT}, nil
	}
	if _, err := check(root); err != nil {
		return Modules{}, err
	}

	keys := make([]int32, 0, len(isModule))
	for k := range isModule {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	id := make(map[int32]int32, len(keys))
	var next int32 = 1
	for _, k := range keys {
		id[k] = next
		next++
	}

	return Modules{IsModule: isModule, ID: id}, nil
}
