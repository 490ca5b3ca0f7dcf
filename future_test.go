package flowgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph"
	"github.com/vk/flowgraph/topictest"
)

// echoBackDetector subscribes to A, and on every visit schedules a
// FuturePublisher publication of C rather than publishing within the same
// traversal.
type echoBackDetector struct {
	flowgraph.Base
	future flowgraph.FuturePublisher[valueC]
	seen   int
}

func newEchoBackDetector(g *flowgraph.Graph, c *flowgraph.ProcessorContainer) *echoBackDetector {
	d := &echoBackDetector{future: flowgraph.SetupFuturePublishing[valueC](c)}
	flowgraph.Register(g, "EchoBack", &d.Base, d)
	flowgraph.Subscribe(&d.Base, func(v valueA) {
		d.seen = v.V
	})
	return d
}

func (d *echoBackDetector) CompleteEvaluation() {
	d.future.Publish(valueC{V: d.seen * 100})
}

func TestFuturePublisher_DelaysToNextProcessData(t *testing.T) {
	c := flowgraph.NewProcessorContainer(nil, nil)
	newEchoBackDetector(c.Graph, c)
	rec := topictest.NewRecorder[valueC](c.Graph, "sink")

	require.NoError(t, flowgraph.ProcessData(c, valueA{V: 1}))
	assert.Empty(t, rec.Values, "a future publication must not land in the traversal that scheduled it")

	require.NoError(t, flowgraph.ProcessData(c, valueA{V: 2}))
	require.Len(t, rec.Values, 1, "it must land at the very start of the next ProcessData")
	assert.Equal(t, 100, rec.Values[0].V)

	require.NoError(t, flowgraph.ProcessData(c, valueA{V: 3}))
	require.Len(t, rec.Values, 2)
	assert.Equal(t, 200, rec.Values[1].V)
}
