package flowgraph

// Completer is the capability every detector has, by default a no-op via
// the embedded Base: it is invoked once per traversal visit, after all
// per-topic Evaluate calls, iff at least one subscribed input was dirty.
type Completer interface {
	CompleteEvaluation()
}

// Base is embedded by every detector. It carries the bookkeeping the
// engine needs (graph membership, registration id, the ordered list of
// per-topic visit closures built up by Subscribe calls) and none of the
// domain logic, which lives entirely in the embedding type.
type Base struct {
	graph  *Graph
	id     int
	name   string
	self   Completer
	visits []func() bool
}

// CompleteEvaluation is the default no-op. A detector overrides it by
// declaring its own method of the same name; Go's method resolution then
// prefers the outer definition over this promoted one.
func (b *Base) CompleteEvaluation() {}

// Name returns the detector's registration name.
func (b *Base) Name() string { return b.name }

// Register attaches base to g under name, and self as the value the engine
// will call Evaluate/CompleteEvaluation through. self is almost always the
// detector struct that embeds base itself, e.g.:
//
//	s := &Sum{}
//	flowgraph.Register(g, "Sum", &s.Base, s)
//
// Register must be called exactly once, before any Subscribe or
// SetupPublishing call against base.
func Register(g *Graph, name string, base *Base, self Completer) {
	if base.graph != nil {
		panic("flowgraph: detector already registered: " + base.name)
	}
	base.graph = g
	base.name = name
	base.self = self
	base.id = g.registerDetector(base)
}

func requireRegistered(base *Base) {
	if base.graph == nil {
		panic("flowgraph: Subscribe/SetupPublishing called before Register")
	}
}

// SubscriberOf is the capability mixin a detector embeds once per
// subscribed topic type. It implements Subscriber[T] by invoking the
// callback supplied to Subscribe.
type SubscriberOf[T State] struct {
	fn func(T)
}

// Evaluate implements Subscriber[T].
func (s SubscriberOf[T]) Evaluate(v T) {
	if s.fn != nil {
		s.fn(v)
	}
}

// Subscribe registers base as a subscriber of Topic[T] and returns the
// SubscriberOf[T] mixin the caller should store in its own struct (purely
// for documentation of the capability; the engine already captured the
// dispatch closure it needs). fn is invoked once per value published to
// Topic[T] during a traversal in which base is visited, in publish order.
func Subscribe[T State](base *Base, fn func(T)) SubscriberOf[T] {
	requireRegistered(base)
	sub := SubscriberOf[T]{fn: fn}
	topic := ResolveTopic[T](base.graph)
	topic.subscribers = append(topic.subscribers, subscriptionDispatcher[T]{subscriber: sub})
	base.graph.recordSubscriberEdge(topicKey[T](), base.id)
	base.visits = append(base.visits, func() bool {
		if !topic.HasNewValue() {
			return false
		}
		for _, v := range topic.newValues {
			sub.Evaluate(v)
		}
		return true
	})
	return sub
}

// PublisherOf is the capability mixin a detector embeds once per published
// topic type. It implements Publish(T) by forwarding to the resolved
// Topic[T].
type PublisherOf[T State] struct {
	topic *Topic[T]
}

// Publish writes v to this publisher's output topic.
func (p PublisherOf[T]) Publish(v T) {
	p.topic.Publish(v)
}

// SetupPublishing declares base as a publisher of Topic[T], recording the
// detector->topic edge in the graph, and returns the PublisherOf[T] mixin
// the caller stores in its own struct to gain the Publish method.
func SetupPublishing[T State](base *Base) PublisherOf[T] {
	requireRegistered(base)
	topic := ResolveTopic[T](base.graph)
	_, isLag := any(base.self).(lagFlusher)
	base.graph.recordPublisherEdge(topicKey[T](), base.id, isLag)
	return PublisherOf[T]{topic: topic}
}
