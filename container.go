package flowgraph

import (
	"context"
	"log/slog"
)

// OutputProcessor is the hook ProcessorContainer calls after every
// EvaluateGraph, giving user code a chance to drain output topics via
// HasNewValue/GetNewValue before the next ProcessData call consolidates
// them away.
type OutputProcessor interface {
	ProcessOutput()
}

type noopOutputProcessor struct{}

func (noopOutputProcessor) ProcessOutput() {}

// ProcessorContainer is the facade a caller drives instead of talking to a
// Graph directly: it owns the Graph, threads a context.Context into every
// traversal, and calls back into user code once per ProcessData so outputs
// can be drained before the next external input arrives.
type ProcessorContainer struct {
	Graph  *Graph
	ctx    context.Context
	logger *slog.Logger
	output OutputProcessor

	pendingFutures []func(*Graph)
}

// ContainerOption configures a ProcessorContainer at construction, layered
// on top of the Graph-level Option set.
type ContainerOption func(*ProcessorContainer)

// WithContext sets the base context.Context ProcessData threads into every
// EvaluateGraph call. The default is context.Background().
func WithContext(ctx context.Context) ContainerOption {
	return func(c *ProcessorContainer) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithContainerLogger sets the *slog.Logger ProcessorContainer uses for its
// own diagnostics, and the Graph it constructs falls back to it too when
// opts doesn't supply its own WithLogger. The default is slog.Default().
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(c *ProcessorContainer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewProcessorContainer creates a ProcessorContainer wrapping a fresh Graph.
// output is called after every ProcessData's traversal; a nil output is
// replaced with a no-op, since not every user of the core cares to drain
// outputs eagerly (GetCurrentValues on a topic remains available directly).
// opts is applied to the Graph after the container's own logger, so an
// explicit WithLogger in opts wins over WithContainerLogger.
func NewProcessorContainer(output OutputProcessor, opts []Option, containerOpts ...ContainerOption) *ProcessorContainer {
	if output == nil {
		output = noopOutputProcessor{}
	}
	c := &ProcessorContainer{
		ctx:    context.Background(),
		output: output,
		logger: slog.Default(),
	}
	for _, opt := range containerOpts {
		opt(c)
	}
	graphOpts := append([]Option{WithLogger(c.logger)}, opts...)
	c.Graph = New(graphOpts...)
	return c
}

func (c *ProcessorContainer) drainFutures() {
	if len(c.pendingFutures) == 0 {
		return
	}
	pending := c.pendingFutures
	c.pendingFutures = nil
	for _, fn := range pending {
		fn(c.Graph)
	}
}

// ProcessData is the single external entry point: it drains any
// FuturePublisher publications queued by the previous traversal, posts v to
// Topic[T], runs one full EvaluateGraph traversal, and calls ProcessOutput.
// A failure to evaluate (ErrCyclicGraph, most likely from a Compile that
// never ran cleanly) is returned without calling ProcessOutput.
func ProcessData[T State](c *ProcessorContainer, v T) error {
	c.drainFutures()
	PostNewTopicStateOnto(c.Graph, v)
	if err := c.Graph.EvaluateGraph(c.ctx); err != nil {
		c.logger.Error("traversal failed", "error", err)
		return err
	}
	c.output.ProcessOutput()
	return nil
}
