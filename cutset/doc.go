// Package cutset builds the positive-only SimpleGate representation of a
// preprocessed fault tree and expands it into minimal cut sets.
//
// Grounded on original_source/src/indexed_fault_tree.h's SimpleGate,
// ExpandOrLayer, ExpandAndLayer, and FindMcs: by the time a gate reaches this
// package, preprocess.Normalizer/ConstantPropagator/ComplementPropagator/
// Simplifier have already reduced it to {OR, AND} kind with signs living only
// on leaves, so SimpleGate never needs to represent NOR/NAND/XOR/ATLEAST or a
// signed gate-child reference.
package cutset
