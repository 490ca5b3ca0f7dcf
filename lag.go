package flowgraph

// Lagged wraps T on a topic distinct from Topic[T] itself, so a
// zero-lag subscription to T can never be confused with a subscription to
// its one-traversal-delayed counterpart.
type Lagged[T State] struct {
	BaseState
	Data T
}

// Lag is the built-in detector that converts Topic[T] into
// Topic[Lagged[T]] one traversal later. It subscribes to T and publishes
// Lagged[T]; the edge it subscribes on (T -> Lag) is an ordinary live edge,
// but the edge it publishes on (Lag -> Lagged[T]) is excluded from
// topological ordering, which is what lets a downstream detector both
// produce T and consume Lagged[T] without forming a live cycle.
//
// Graph flushes every registered Lag's buffered value at the very start of
// each traversal, before the topological walk begins, so Lagged[T]
// consumers see traversal k's value regardless of their position relative
// to Lag in the order. See DESIGN.md for why this precedes the ordinary
// per-detector visit instead of running inside it.
type Lag[T State] struct {
	Base
	SubscriberOf[T]
	PublisherOf[Lagged[T]]

	buffer  *T
	pending *T
}

// NewLag creates and registers a Lag[T] detector against g.
func NewLag[T State](g *Graph) *Lag[T] {
	l := &Lag[T]{}
	Register(g, "Lag", &l.Base, l)
	l.SubscriberOf = Subscribe(&l.Base, func(v T) {
		vCopy := v
		l.pending = &vCopy
	})
	l.PublisherOf = SetupPublishing[Lagged[T]](&l.Base)
	return l
}

// flushLag publishes the buffered value from the previous traversal, if
// any, then clears buffer so it is emitted exactly once. This clear must
// happen here, unconditionally, rather than only inside CompleteEvaluation:
// CompleteEvaluation is dirty-gated and does not run in a traversal where T
// was not published, and buffer must not survive such a traversal or it
// would be re-flushed on every subsequent one.
func (l *Lag[T]) flushLag() {
	if l.buffer != nil {
		l.Publish(Lagged[T]{Data: *l.buffer})
		l.buffer = nil
	}
}

// CompleteEvaluation advances the buffer for next traversal's flushLag. It
// only runs when T was dirty this traversal (Base's dirty gating); a
// traversal in which T never publishes leaves buffer at whatever flushLag
// already set it to (nil, having just been flushed).
func (l *Lag[T]) CompleteEvaluation() {
	l.buffer = l.pending
	l.pending = nil
}
