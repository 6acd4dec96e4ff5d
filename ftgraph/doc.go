// Package ftgraph implements the indexed Boolean DAG that underlies a fault
// tree: a mutable arena of gates identified by non-zero integer indices,
// with signed edges (+i selects child i, -i selects its complement) and
// maintained parent back-references.
//
// Gates and leaves share one index space. Basic events occupy [1, B] for a
// frozen leaf count B; gate indices are minted strictly above B and may grow
// during preprocessing. Indices never change once assigned — only the set of
// gates referencing them does.
//
// The graph itself is single-threaded (see package preprocess and cutset for
// the only concurrency boundary this module grants: whole-module analysis
// after modules have been detected). Every mutating method assumes exclusive
// access; wrap a Graph in your own synchronization if you need to share it.
package ftgraph
