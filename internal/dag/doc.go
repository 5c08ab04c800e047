// Package dag holds the dependency graph of tasks.
//
// Tasks live in an arena addressed by integer handles and edges are kept as
// per-handle sets in both directions. An edge A -> B means B depends on A.
// AddDependency re-checks the whole graph for cycles after every insertion
// and rolls the insertion back if one appears, so a Graph is acyclic between
// calls. Snapshot and Restore give callers a cheap, alias-free way to consume
// a working copy destructively.
package dag
