// Package eventtree flattens an event tree — a forest of forks over
// initiating events, terminating in sequences — into one synthetic top gate
// per reachable sequence, suitable for handing to ftgraph/preprocess/cutset.
//
// Grounded on original_source/src/event_tree_analysis.cc's
// EventTreeAnalysis::CollectSequences and EventTreeAnalysis::Analyze, with
// its four-instruction-kind visitor dispatch replaced by the tagged-sum-type
// switch spec.md §9's Design Notes recommend in place of virtual dispatch.
package eventtree
