// Package dagorder computes a deterministic topological order over a set of
// integer-keyed nodes and directed edges, and detects cycles among the
// non-excluded ("live") edges.
//
// Node identity is a plain int (a detector's registration index) rather
// than a string id, edges carry a back-edge flag so Lag-produced edges can
// be recorded for diagnostics while being excluded from ordering, and there
// is no mutex because a Graph's Compile() runs to completion on a single
// goroutine before any traversal begins.
package dagorder
