package flowgraph

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/vk/flowgraph/internal/ctxlog"
	"github.com/vk/flowgraph/internal/dagorder"
)

// lagFlusher is implemented only by *Lag[T]. Graph uses it two ways: to
// find the detectors whose published edges must be excluded from
// topological ordering (they are, by construction, the back edges that
// make Lag's one-traversal delay possible), and to flush each Lag's
// buffered value at the very start of every traversal, before the ordinary
// topological walk begins.
type lagFlusher interface {
	flushLag()
}

// topicLinks accumulates, for one topic type, which detectors publish to it
// and which subscribe to it, in registration order. Graph.Compile turns
// this into detector-level edges.
type topicLinks struct {
	publishers     []int
	publisherIsLag []bool
	subscribers    []int
}

// Graph owns the TopicRegistry, the registered detectors, and the
// topological order computed over them. It drives one traversal per
// external input.
type Graph struct {
	logger *slog.Logger
	cfg    Config

	topics map[reflect.Type]any // *Topic[T], type-erased
	links  map[reflect.Type]*topicLinks

	detectors   []*Base
	lagFlushers []lagFlusher

	order    []int
	edges    *dagorder.Builder
	compiled bool

	dirty []dirtyTopic
}

// New creates an empty Graph. Detectors register themselves against it via
// Register during their own construction.
func New(opts ...Option) *Graph {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Graph{
		logger: cfg.logger,
		cfg:    cfg,
		topics: make(map[reflect.Type]any),
		links:  make(map[reflect.Type]*topicLinks),
	}
}

func (g *Graph) linksFor(t reflect.Type) *topicLinks {
	tl, ok := g.links[t]
	if !ok {
		tl = &topicLinks{}
		g.links[t] = tl
	}
	return tl
}

func (g *Graph) recordSubscriberEdge(t reflect.Type, detectorID int) {
	tl := g.linksFor(t)
	tl.subscribers = append(tl.subscribers, detectorID)
}

func (g *Graph) recordPublisherEdge(t reflect.Type, detectorID int, isLag bool) {
	tl := g.linksFor(t)
	tl.publishers = append(tl.publishers, detectorID)
	tl.publisherIsLag = append(tl.publisherIsLag, isLag)
}

func (g *Graph) registerDetector(b *Base) int {
	id := len(g.detectors)
	g.detectors = append(g.detectors, b)
	if lf, ok := any(b.self).(lagFlusher); ok {
		g.lagFlushers = append(g.lagFlushers, lf)
	}
	g.compiled = false
	g.logger.Debug("detector registered", "id", id, "name", b.name)
	return id
}

// Compile computes the topological order over the detector dependency DAG,
// excluding Lag-produced edges, and fails with ErrCyclicGraph if a cycle
// remains. It is idempotent: subsequent calls after a successful compile
// are no-ops. EvaluateGraph calls it automatically if needed, but calling
// it explicitly surfaces construction-time errors before the first
// external input arrives.
func (g *Graph) Compile() error {
	if g.compiled {
		return nil
	}

	b := dagorder.New(len(g.detectors))
	types := maps.Keys(g.links)
	slices.SortFunc(types, func(a, b reflect.Type) bool { return a.String() < b.String() })

	for _, ty := range types {
		tl := g.links[ty]
		for i, p := range tl.publishers {
			back := tl.publisherIsLag[i]
			for _, s := range tl.subscribers {
				if p == s {
					continue
				}
				if err := b.AddEdge(p, s, back); err != nil {
					return err
				}
			}
		}
	}

	order, err := b.Sort()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCyclicGraph, err)
	}

	g.order = order
	g.edges = b
	g.compiled = true
	return nil
}

// EvaluateGraph runs one traversal: it flushes every Lag's buffered value,
// then visits every detector in topological order, delivering Evaluate
// calls for each dirty subscribed topic followed by CompleteEvaluation iff
// at least one was dirty, and finally consolidates every topic that
// received a new value this traversal.
func (g *Graph) EvaluateGraph(ctx context.Context) error {
	if !g.compiled {
		if err := g.Compile(); err != nil {
			return err
		}
	}
	logger, ok := ctxlog.TryFromContext(ctx)
	if !ok {
		ctx = ctxlog.WithLogger(ctx, g.logger)
		logger = g.logger
	}

	for _, lf := range g.lagFlushers {
		lf.flushLag()
	}

	for _, id := range g.order {
		d := g.detectors[id]
		dirty := false
		for _, visit := range d.visits {
			if visit() {
				dirty = true
			}
		}
		if !dirty {
			continue
		}
		logger.Debug("visiting detector", "id", id, "name", d.name)
		d.self.CompleteEvaluation()
	}

	for _, t := range g.dirty {
		t.consolidate()
	}
	g.dirty = g.dirty[:0]
	return nil
}

// DetectorInfo describes one registered detector for the diagnostic
// iteration surface (an external dot-exporter or similar consumes this;
// the exporter itself is out of scope for this package).
type DetectorInfo struct {
	ID   int
	Name string
}

// Detectors returns every registered detector, in registration order.
func (g *Graph) Detectors() []DetectorInfo {
	out := make([]DetectorInfo, len(g.detectors))
	for i, d := range g.detectors {
		out[i] = DetectorInfo{ID: d.id, Name: d.name}
	}
	return out
}

// EdgeInfo describes one detector->detector precedence edge derived from a
// shared topic. IsBackEdge is true for edges published by a Lag detector:
// they exist for diagnostics but are excluded from topological ordering.
type EdgeInfo struct {
	From, To   int
	IsBackEdge bool
}

// Edges returns every edge in the compiled detector DAG, live and back,
// compiling the graph first if necessary.
func (g *Graph) Edges() ([]EdgeInfo, error) {
	if !g.compiled {
		if err := g.Compile(); err != nil {
			return nil, err
		}
	}
	raw := g.edges.Edges()
	out := make([]EdgeInfo, len(raw))
	for i, e := range raw {
		out[i] = EdgeInfo{From: e.From, To: e.To, IsBackEdge: e.Back}
	}
	return out, nil
}
