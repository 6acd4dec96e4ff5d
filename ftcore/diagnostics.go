package ftcore

import "github.com/scramgo/ftcore/eventtree"

// computeDiagnostics reports manifest bookkeeping that requires no
// probability evaluation, per spec.md §4.8: basic events no gate's argument
// set or event-tree CollectFormula instruction references, and parameters no
// basic event's Expression names. Normalizer never drops a real leaf
// reference (I1, spec.md §3), so the "after normalization" reference set
// spec.md §4.8 asks for is exactly the union of leaf arguments already
// present in the raw manifest's gate arguments and event-tree formulas.
func computeDiagnostics(m Model) Diagnostics {
	referenced := make(map[int32]bool, len(m.BasicEvents))
	for _, gt := range m.Gates {
		for _, a := range gt.Arguments {
			referenced[abs32(a)] = true
		}
	}
	for idx := range collectFormulaReferences(m) {
		referenced[idx] = true
	}
	var orphan []string
	for _, be := range m.BasicEvents {
		if !referenced[be.Index] {
			orphan = append(orphan, be.ID)
		}
	}

	usedParams := make(map[string]bool, len(m.Parameters))
	for _, be := range m.BasicEvents {
		if be.Expression != "" {
			usedParams[be.Expression] = true
		}
	}
	var unused []string
	for _, p := range m.Parameters {
		if !usedParams[p.ID] {
			unused = append(unused, p.ID)
		}
	}

	return Diagnostics{OrphanPrimaryEvents: orphan, UnusedParameters: unused}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// collectFormulaReferences walks every event tree's branches (following
// Forks and Links the same way Flattener.walkBranch does, but gathering
// CollectFormula references instead of synthesizing gates) and returns the
// set of indices named directly by a CollectFormula instruction. A formula
// naming a gate rather than a leaf is harmless to include here: gate indices
// never collide with BasicEvent.Index (spec.md §3's leaf/gate index-space
// split), so computeDiagnostics's orphan check simply never matches one.
func collectFormulaReferences(m Model) map[int32]bool {
	refs := make(map[int32]bool)
	var walkBranch func(b *eventtree.Branch)
	var walkInstructions func(instrs []eventtree.Instruction)

	walkInstructions = func(instrs []eventtree.Instruction) {
		for _, instr := range instrs {
			switch v := instr.(type) {
			case eventtree.CollectFormula:
				refs[abs32(v.Formula)] = true
			case eventtree.Link:
				walkBranch(v.Target.InitialState)
			}
		}
	}

	walkBranch = func(b *eventtree.Branch) {
		if b == nil {
			return
		}
		walkInstructions(b.Instructions)
		switch t := b.Target.(type) {
		case *eventtree.Fork:
			for _, path := range t.Paths {
				walkBranch(path)
			}
		case *eventtree.Sequence:
			walkInstructions(t.Instructions)
		}
	}

	for _, et := range m.EventTrees {
		walkBranch(et.InitialState)
	}
	return refs
}
