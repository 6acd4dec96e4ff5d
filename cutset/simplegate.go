package cutset

import (
	"sort"

	"github.com/scramgo/ftcore/ftgraph"
)

// SimpleGate is the positive-only secondary representation used for cut-set
// expansion: only {OR, AND} kind, an ordered set of positive basic-event
// indices, an ordered set of positive module indices (each referring to a
// module whose own MCS set is substituted in during expansion rather than
// re-derived here), and an ordered set of child gates.
//
// Grounded on original_source/src/indexed_fault_tree.h's SimpleGate class;
// AddBasic/AddModule/MergeGate preserve its complement-collision bookkeeping
// even though a coherent graph should never trigger it, matching spec.md
// §4.6's "cannot happen in coherent mode, but asserted" note.
type SimpleGate struct {
	Kind        ftgraph.Kind
	BasicEvents []int32
	Modules     []int32
	Gates       []*SimpleGate
}

func newSimpleGate(kind ftgraph.Kind) *SimpleGate {
	return &SimpleGate{Kind: kind}
}

// AddBasic inserts a positive basic-event index, reporting false if doing so
// would collapse an AND gate via an {i, -i} collision (never expected once
// ErrNonCoherent has already ruled out negative indices upstream).
func (s *SimpleGate) AddBasic(index int32) bool {
	if s.Kind == ftgraph.AND && containsSorted(s.BasicEvents, -index) {
		return false
	}
	s.BasicEvents, _ = insertSorted(s.BasicEvents, index)
	return true
}

// AddModule inserts a positive module index, with the same collision
// bookkeeping as AddBasic.
func (s *SimpleGate) AddModule(index int32) bool {
	if s.Kind == ftgraph.AND && containsSorted(s.Modules, -index) {
		return false
	}
	s.Modules, _ = insertSorted(s.Modules, index)
	return true
}

// AddChildGate appends a child SimpleGate, in construction order (which
// follows the arena's deterministic ascending gate-index order).
func (s *SimpleGate) AddChildGate(child *SimpleGate) {
	s.Gates = append(s.Gates, child)
}

// MergeGate folds another AND gate's contents into s, used when joining two
// AND SimpleGates directly rather than nesting one inside the other.
func (s *SimpleGate) MergeGate(other *SimpleGate) bool {
	for _, b := range other.BasicEvents {
		if containsSorted(s.BasicEvents, -b) {
			return false
		}
	}
	for _, m := range other.Modules {
		if containsSorted(s.Modules, -m) {
			return false
		}
	}
	for _, b := range other.BasicEvents {
		s.BasicEvents, _ = insertSorted(s.BasicEvents, b)
	}
	for _, m := range other.Modules {
		s.Modules, _ = insertSorted(s.Modules, m)
	}
	s.Gates = append(s.Gates, other.Gates...)
	return true
}

func insertSorted(s []int32, v int32) ([]int32, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= v })
	if i < len(s) && s[i] == v {
		return s, false
	}
	out := append(s, 0)
	copy(out[i+1:], out[i:])
	out[i] = v
	return out, true
}

func containsSorted(s []int32, v int32) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= v })
	return i < len(s) && s[i] == v
}
