// Package topictest provides small hand-written detector doubles for
// building test graphs: minimal structs that satisfy the real interfaces
// instead of a generated mock.
package topictest

import "github.com/vk/flowgraph"

// NoOp is a detector that subscribes to nothing and publishes nothing. It
// is useful for tests that only need a registered node to exercise Graph
// bookkeeping (registration order, the Detectors() diagnostic view)
// without any dataflow behavior attached.
type NoOp struct {
	flowgraph.Base
}

// NewNoOp registers a NoOp detector named name against g.
func NewNoOp(g *flowgraph.Graph, name string) *NoOp {
	n := &NoOp{}
	flowgraph.Register(g, name, &n.Base, n)
	return n
}

// Recorder subscribes to Topic[T] and appends every value it observes, in
// delivery order, so a test can assert on exactly what one traversal
// delivered without wiring a bespoke detector type.
type Recorder[T flowgraph.State] struct {
	flowgraph.Base
	Values []T
}

// NewRecorder registers a Recorder[T] named name against g.
func NewRecorder[T flowgraph.State](g *flowgraph.Graph, name string) *Recorder[T] {
	r := &Recorder[T]{}
	flowgraph.Register(g, name, &r.Base, r)
	flowgraph.Subscribe(&r.Base, func(v T) {
		r.Values = append(r.Values, v)
	})
	return r
}

// Relay subscribes to Topic[In] and republishes each value, mapped through
// fn, onto Topic[Out]. It is the smallest non-trivial detector shape,
// useful for assembling small test graphs without a bespoke type per case.
type Relay[In, Out flowgraph.State] struct {
	flowgraph.Base
	out     flowgraph.PublisherOf[Out]
	fn      func(In) Out
	pending []Out
}

// NewRelay registers a Relay[In, Out] named name against g.
func NewRelay[In, Out flowgraph.State](g *flowgraph.Graph, name string, fn func(In) Out) *Relay[In, Out] {
	r := &Relay[In, Out]{fn: fn}
	flowgraph.Register(g, name, &r.Base, r)
	flowgraph.Subscribe(&r.Base, func(v In) {
		r.pending = append(r.pending, r.fn(v))
	})
	r.out = flowgraph.SetupPublishing[Out](&r.Base)
	return r
}

// CompleteEvaluation publishes every value queued by this traversal's
// Evaluate calls, in the order they were queued.
func (r *Relay[In, Out]) CompleteEvaluation() {
	for _, v := range r.pending {
		r.out.Publish(v)
	}
	r.pending = r.pending[:0]
}
