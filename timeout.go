package flowgraph

import (
	"container/heap"
	"time"

	"github.com/google/uuid"
)

type timeoutEntry[T State] struct {
	deadline time.Time
	token    uuid.UUID
	value    T
	index    int
}

type timeoutHeap[T State] []*timeoutEntry[T]

func (h timeoutHeap[T]) Len() int           { return len(h) }
func (h timeoutHeap[T]) Less(i, j int) bool { return h[i].deadline.Before(h[j].deadline) }
func (h timeoutHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timeoutHeap[T]) Push(x any) {
	e := x.(*timeoutEntry[T])
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timeoutHeap[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// TimeoutPublisher schedules a publication to Topic[T] for a future
// monotonic time. It has no timer or goroutine of its own: a host loop
// drives it by calling FireOverdue, and every fired value becomes a seed
// for whichever ProcessData call the host makes next.
type TimeoutPublisher[T State] struct {
	graph   *Graph
	pending timeoutHeap[T]
	byToken map[uuid.UUID]*timeoutEntry[T]
}

// NewTimeoutPublisher creates a TimeoutPublisher bound to g's Topic[T].
func NewTimeoutPublisher[T State](g *Graph) *TimeoutPublisher[T] {
	return &TimeoutPublisher[T]{
		graph:   g,
		byToken: make(map[uuid.UUID]*timeoutEntry[T]),
	}
}

// Schedule enqueues v for publication once FireOverdue is called with a
// time at or after deadline. It returns a token that Cancel accepts.
func (p *TimeoutPublisher[T]) Schedule(deadline time.Time, v T) uuid.UUID {
	token := uuid.New()
	e := &timeoutEntry[T]{deadline: deadline, token: token, value: v}
	heap.Push(&p.pending, e)
	p.byToken[token] = e
	return token
}

// Cancel withdraws a scheduled publication before it fires. Cancelling an
// unknown or already-fired token is a no-op: a fired value has already been
// handed to the graph and cannot be withdrawn.
func (p *TimeoutPublisher[T]) Cancel(token uuid.UUID) {
	e, ok := p.byToken[token]
	if !ok {
		return
	}
	delete(p.byToken, token)
	heap.Remove(&p.pending, e.index)
}

// FireOverdue publishes every scheduled value whose deadline is at or
// before now, in deadline order, as a seed for whichever ProcessData call
// runs next. It does not itself run a traversal.
func (p *TimeoutPublisher[T]) FireOverdue(now time.Time) {
	for p.pending.Len() > 0 && !p.pending[0].deadline.After(now) {
		e := heap.Pop(&p.pending).(*timeoutEntry[T])
		delete(p.byToken, e.token)
		PostNewTopicStateOnto(p.graph, e.value)
	}
}
