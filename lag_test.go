package flowgraph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph"
	"github.com/vk/flowgraph/topictest"
)

// s3Detector mirrors spec scenario S3: it subscribes to A and Lagged[B],
// publishes B := A, and records the order in which it observed each input
// so the test can assert on delivery order within a single visit.
type s3Detector struct {
	flowgraph.Base
	a       int
	laggedB int
	out     flowgraph.PublisherOf[valueB]
	log     []string
}

func newS3Detector(g *flowgraph.Graph) *s3Detector {
	d := &s3Detector{}
	flowgraph.Register(g, "D1", &d.Base, d)
	flowgraph.Subscribe(&d.Base, func(v valueA) {
		d.a = v.V
		d.log = append(d.log, "A")
	})
	flowgraph.Subscribe(&d.Base, func(v flowgraph.Lagged[valueB]) {
		d.laggedB = v.Data.V
		d.log = append(d.log, "LaggedB")
	})
	d.out = flowgraph.SetupPublishing[valueB](&d.Base)
	return d
}

func (d *s3Detector) CompleteEvaluation() {
	d.out.Publish(valueB{V: d.a})
}

// TestLag_OneTraversalDelay reproduces spec scenario S3 exactly: the first
// traversal sees no Lagged[B] (nothing buffered yet), the second sees the
// first traversal's B, in the order A-then-LaggedB, and each traversal's B
// value depends only on that traversal's A.
func TestLag_OneTraversalDelay(t *testing.T) {
	g := flowgraph.New()
	d1 := newS3Detector(g)
	flowgraph.NewLag[valueB](g)

	ctx := context.Background()

	flowgraph.PostNewTopicStateOnto(g, valueA{V: 1})
	require.NoError(t, g.EvaluateGraph(ctx))
	assert.Equal(t, []string{"A"}, d1.log, "no Lagged[B] should be delivered before anything was ever buffered")
	assert.Equal(t, 1, flowgraph.ResolveTopic[valueB](g).GetCurrentValues()[0].V)

	d1.log = nil
	flowgraph.PostNewTopicStateOnto(g, valueA{V: 2})
	require.NoError(t, g.EvaluateGraph(ctx))
	assert.Equal(t, []string{"A", "LaggedB"}, d1.log)
	assert.Equal(t, 1, d1.laggedB, "Lagged[B] observed this traversal must be the previous traversal's B")
	assert.Equal(t, 2, flowgraph.ResolveTopic[valueB](g).GetCurrentValues()[0].V)
}

// TestLag_BufferedValueEmittedExactlyOnce guards against re-flushing a
// buffered value on every subsequent traversal: once Lagged[T] has been
// delivered for a given buffered T, an unrelated later traversal (one that
// never republishes T) must not deliver it again, per property 8
// ("a ProcessData that seeds a topic no detector subscribes to leaves all
// other topics unchanged").
func TestLag_BufferedValueEmittedExactlyOnce(t *testing.T) {
	g := flowgraph.New()
	rec := topictest.NewRecorder[flowgraph.Lagged[valueB]](g, "sink")
	flowgraph.NewLag[valueB](g)

	ctx := context.Background()

	flowgraph.ResolveTopic[valueB](g).Publish(valueB{V: 1})
	require.NoError(t, g.EvaluateGraph(ctx))
	assert.Empty(t, rec.Values, "nothing buffered yet")

	flowgraph.PostNewTopicStateOnto(g, valueA{V: 99})
	require.NoError(t, g.EvaluateGraph(ctx))
	require.Len(t, rec.Values, 1)
	assert.Equal(t, 1, rec.Values[0].Data.V)

	flowgraph.PostNewTopicStateOnto(g, valueA{V: 100})
	require.NoError(t, g.EvaluateGraph(ctx))
	assert.Len(t, rec.Values, 1, "a value already flushed must not be re-emitted on a later, unrelated traversal")
}

// TestLag_NoFlushWithoutPriorValue covers the edge case explicit in S3:
// Lag never publishes Lagged[T] until it has actually buffered a value.
func TestLag_NoFlushWithoutPriorValue(t *testing.T) {
	g := flowgraph.New()
	lagged := flowgraph.ResolveTopic[flowgraph.Lagged[valueB]](g)
	flowgraph.NewLag[valueB](g)

	flowgraph.PostNewTopicStateOnto(g, valueA{V: 1})
	require.NoError(t, g.EvaluateGraph(context.Background()))
	assert.False(t, lagged.HasNewValue())
}
