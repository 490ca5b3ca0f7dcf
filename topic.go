package flowgraph

import "reflect"

// Subscriber is the capability a subscriber of Topic[T] must implement: one
// Evaluate per subscribed type, delivered once per published value, in
// publish order.
type Subscriber[T State] interface {
	Evaluate(v T)
}

// subscriptionDispatcher pairs a Topic[T]'s notion of "a subscriber" with
// the capability it dispatches to. It is the typed handle Topic[T] calls
// when broadcasting a value to every registered subscriber.
type subscriptionDispatcher[T State] struct {
	subscriber Subscriber[T]
}

func (d subscriptionDispatcher[T]) deliver(v T) {
	d.subscriber.Evaluate(v)
}

// Topic holds the current and in-flight-new values for one topic type, plus
// the subscribers registered against it at graph-construction time. There
// is exactly one Topic[T] per Graph; obtain it with ResolveTopic.
type Topic[T State] struct {
	graph       *Graph
	current     T
	newValues   []T
	subscribers []subscriptionDispatcher[T]
	queuedDirty bool
}

// Publish appends v to this traversal's new values and marks the topic
// dirty in the owning Graph. Publishing to a Topic obtained any way other
// than through a Graph (e.g. a bare zero-value Topic[T]) panics with
// ErrTopicNotFound: the core does not recover from this, it is a
// programmer error.
func (t *Topic[T]) Publish(v T) {
	if t.graph == nil {
		panic(ErrTopicNotFound)
	}
	t.newValues = append(t.newValues, v)
	if !t.queuedDirty {
		t.queuedDirty = true
		t.graph.dirty = append(t.graph.dirty, t)
	}
}

// HasNewValue reports whether any value has been published to this topic
// during the current traversal.
func (t *Topic[T]) HasNewValue() bool {
	return len(t.newValues) > 0
}

// GetNewValue returns the last value published during the current
// traversal. Callers must check HasNewValue first.
func (t *Topic[T]) GetNewValue() T {
	return t.newValues[len(t.newValues)-1]
}

// GetCurrentValues returns every value published this traversal, in publish
// order. If none were published, it returns a single-element slice holding
// the topic's current (last-consolidated) value.
func (t *Topic[T]) GetCurrentValues() []T {
	if len(t.newValues) == 0 {
		return []T{t.current}
	}
	out := make([]T, len(t.newValues))
	copy(out, t.newValues)
	return out
}

// DispatchIntoSubscribers delivers every value published this traversal, in
// order, to every registered subscriber, in registration order. Graph's own
// traversal does not call this: it reads a topic's new values directly at
// each subscribing detector's topological turn, which is behaviorally
// equivalent whenever producers precede consumers (guaranteed by the
// topological order) and additionally respects the single-visit-per-
// detector invariant. DispatchIntoSubscribers remains here for driving a
// Topic directly, e.g. in isolation from a Graph in tests.
func (t *Topic[T]) DispatchIntoSubscribers() {
	for _, v := range t.newValues {
		for _, sub := range t.subscribers {
			sub.deliver(v)
		}
	}
}

// consolidate promotes the last published value (if any) to current and
// clears new_values. It is invoked by Graph once per topic at the end of a
// traversal.
func (t *Topic[T]) consolidate() {
	if len(t.newValues) > 0 {
		t.current = t.newValues[len(t.newValues)-1]
		t.newValues = t.newValues[:0]
	}
	t.queuedDirty = false
}

// dirtyTopic is the type-erased handle Graph holds for every topic that
// became dirty during the current traversal, so it can consolidate them at
// traversal end without needing to know T.
type dirtyTopic interface {
	consolidate()
}

// topicKey returns the stable, per-type identity used to key the
// TopicRegistry: T's reflect.Type.
func topicKey[T State]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ResolveTopic returns the Graph's Topic[T], creating and registering it on
// first use. There is at most one Topic[T] per Graph.
func ResolveTopic[T State](g *Graph) *Topic[T] {
	key := topicKey[T]()
	if existing, ok := g.topics[key]; ok {
		return existing.(*Topic[T])
	}
	t := &Topic[T]{graph: g}
	if g.cfg.Lite {
		t.newValues = make([]T, 0, 1)
	}
	g.topics[key] = t
	return t
}

// PostNewTopicStateOnto seeds a traversal: it publishes v onto Topic[T],
// the funnel ProcessorContainer.ProcessData uses to inject external input.
func PostNewTopicStateOnto[T State](g *Graph, v T) {
	ResolveTopic[T](g).Publish(v)
}
