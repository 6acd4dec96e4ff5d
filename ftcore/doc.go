// Package ftcore is the public facade an embedder imports: it assembles an
// ftgraph.Graph from a flat Model manifest, runs the preprocess pipeline
// (Normalizer, ConstantPropagator, ComplementPropagator, Simplifier,
// ModuleDetector) and cutset.Engine over every declared fault tree and
// event-tree sequence, and returns the combined minimal cut sets plus
// bookkeeping diagnostics.
//
// Validating the manifest itself — undefined references, duplicate ids,
// cyclic containment — is the excluded initializer's job (spec.md §1);
// Model assumes the caller already did that, modulo the narrower structural
// checks Analyze performs on its way to building the graph (contiguous gate
// indices, resolvable fault-tree top gates).
package ftcore
