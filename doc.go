// Package flowgraph implements a single-threaded, synchronously-evaluated,
// topic-typed publish/subscribe dataflow engine.
//
// Detectors subscribe to strongly-typed topics, compute, and publish to
// other topics. A Graph schedules one full topological traversal per
// external input, visiting each detector at most once per traversal. The
// built-in Lag detector delays a topic by exactly one traversal so cyclic
// logical dependencies can be expressed without a live cycle in any single
// evaluation.
//
// A minimal detector looks like this:
//
//	type Sum struct {
//	    flowgraph.Base
//	    a, b int
//	    out  flowgraph.PublisherOf[Total]
//	}
//
//	func NewSum(g *flowgraph.Graph) *Sum {
//	    s := &Sum{}
//	    flowgraph.Register(g, "Sum", &s.Base, s)
//	    flowgraph.Subscribe(&s.Base, func(v A) { s.a = v.Value })
//	    flowgraph.Subscribe(&s.Base, func(v B) { s.b = v.Value })
//	    s.out = flowgraph.SetupPublishing[Total](&s.Base)
//	    return s
//	}
//
//	func (s *Sum) CompleteEvaluation() {
//	    s.out.Publish(Total{Value: s.a + s.b})
//	}
//
// A detector that both subscribes to and publishes exactly one type may
// instead embed PublisherOf[T] (or SubscriberOf[T]) directly to gain
// Publish (or Evaluate) via method promotion, the way Lag does; embedding
// two instantiations of the same generic mixin in one struct is a Go
// field-name collision, so any detector with more than one input or output
// uses named fields as shown above.
package flowgraph
