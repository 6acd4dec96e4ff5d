// Package preprocess implements the five preprocessing stages that sit
// between an indexed Boolean graph (package ftgraph) and minimal-cut-set
// enumeration (package cutset):
//
//   - Normalizer reduces the gate-kind set from {OR, AND, XOR, NAND, NOR,
//     NOT, NULL, ATLEAST} to {OR, AND, NULL}, unrolling XOR and ATLEAST into
//     OR/AND compositions and rewriting NOR/NAND/NOT via sign flips.
//   - ConstantPropagator folds house events (fixed true/false leaves) through
//     the graph, eliminating the null/unity subtrees that result.
//   - ComplementPropagator pushes negations down to the leaves, eliminating
//     the need for negative gate-child references.
//   - Simplifier merges same-kind parent/child chains and elides transparent
//     NULL gates.
//   - ModuleDetector runs an Euler-tour DFS to flag independently-analysable
//     subgraphs.
//
// Every stage except ModuleDetector mutates its ftgraph.Graph in place.
// Normalizer, ComplementPropagator and Simplifier return the root to continue
// from: Normalizer keeps the root index and records a flipped top-event
// polarity in RootSign, ComplementPropagator may return a materialized
// complement gate, and Simplifier may collapse the root to a leaf reference.
// ConstantPropagator instead reports whether the root collapsed to null or
// unity, and ModuleDetector returns the module flags.
package preprocess
