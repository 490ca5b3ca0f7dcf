package flowgraph

// FuturePublisher defers a publication to Topic[T] until the start of the
// next external ProcessData call, instead of the current traversal. A
// detector captures one during CompleteEvaluation and calls Publish on it
// when it needs to feed a value back into the graph without extending the
// current topological walk, preserving the single-pass invariant.
//
// Unlike PublisherOf[T], FuturePublisher is bound to a ProcessorContainer,
// not a detector's Base: the deferred value has no producing detector by
// the time it is actually posted.
type FuturePublisher[T State] struct {
	container *ProcessorContainer
}

// SetupFuturePublishing declares c as the eventual home of a future
// publication of T. The returned FuturePublisher is typically stored by a
// detector that needs to schedule one, the same way PublisherOf[T] is
// stored for an ordinary publication.
func SetupFuturePublishing[T State](c *ProcessorContainer) FuturePublisher[T] {
	return FuturePublisher[T]{container: c}
}

// Publish queues v to be posted to Topic[T] at the start of the next
// ProcessData call on this publisher's container, not the one in flight.
func (f FuturePublisher[T]) Publish(v T) {
	c := f.container
	c.pendingFutures = append(c.pendingFutures, func(g *Graph) {
		PostNewTopicStateOnto(g, v)
	})
}
