package dagorder

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// Edge is a directed edge between two node indices. Back edges are recorded
// for diagnostics but excluded from both cycle detection and the computed
// order.
type Edge struct {
	From, To int
	Back     bool
}

// Builder accumulates nodes and edges for a fixed-size node set, then
// computes a deterministic topological order over the live (non-back) edges.
type Builder struct {
	n         int
	edges     []Edge
	liveAdj   [][]int // liveAdj[from] = []to, live edges only
	liveIndeg []int
}

// New creates a Builder for n nodes, identified by the indices [0, n).
func New(n int) *Builder {
	return &Builder{
		n:         n,
		liveAdj:   make([][]int, n),
		liveIndeg: make([]int, n),
	}
}

// AddEdge records a directed edge from -> to. Self-edges are rejected: a
// detector can never legitimately depend on its own visit within one
// traversal.
func (b *Builder) AddEdge(from, to int, back bool) error {
	if from == to {
		return fmt.Errorf("dagorder: self-referential edge not allowed: %d -> %d", from, from)
	}
	if from < 0 || from >= b.n || to < 0 || to >= b.n {
		return fmt.Errorf("dagorder: edge %d -> %d out of range [0,%d)", from, to, b.n)
	}
	b.edges = append(b.edges, Edge{From: from, To: to, Back: back})
	if !back {
		b.liveAdj[from] = append(b.liveAdj[from], to)
		b.liveIndeg[to]++
	}
	return nil
}

// Edges returns every recorded edge, live and back, in the order they were
// added.
func (b *Builder) Edges() []Edge {
	out := make([]Edge, len(b.edges))
	copy(out, b.edges)
	return out
}

// Sort computes a deterministic topological order over the live edges using
// Kahn's algorithm. Ties among simultaneously-ready nodes are broken by
// ascending node index, which corresponds to detector registration order.
// If a cycle remains among the live edges, Sort returns a multierr
// aggregate naming every node that could not be scheduled.
func (b *Builder) Sort() ([]int, error) {
	indeg := make([]int, b.n)
	copy(indeg, b.liveIndeg)

	ready := make([]int, 0, b.n)
	for id := 0; id < b.n; id++ {
		if indeg[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Ints(ready)

	order := make([]int, 0, b.n)
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var unlocked []int
		for _, to := range b.liveAdj[id] {
			indeg[to]--
			if indeg[to] == 0 {
				unlocked = append(unlocked, to)
			}
		}
		if len(unlocked) == 0 {
			continue
		}
		sort.Ints(unlocked)
		merged := make([]int, 0, len(ready)+len(unlocked))
		i, j := 0, 0
		for i < len(ready) && j < len(unlocked) {
			if ready[i] <= unlocked[j] {
				merged = append(merged, ready[i])
				i++
			} else {
				merged = append(merged, unlocked[j])
				j++
			}
		}
		merged = append(merged, ready[i:]...)
		merged = append(merged, unlocked[j:]...)
		ready = merged
	}

	if len(order) < b.n {
		scheduled := make([]bool, b.n)
		for _, id := range order {
			scheduled[id] = true
		}
		var err error
		for id := 0; id < b.n; id++ {
			if !scheduled[id] {
				err = multierr.Append(err, fmt.Errorf("node %d is part of a cycle", id))
			}
		}
		return nil, err
	}

	return order, nil
}
