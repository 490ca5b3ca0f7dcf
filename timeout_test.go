package flowgraph_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph"
	"github.com/vk/flowgraph/topictest"
)

// TestTimeoutPublisher_FiresOnlyWhenOverdue reproduces spec scenario S6:
// schedule at t=100, FireOverdue(99) is a no-op, FireOverdue(101) seeds
// the next traversal.
func TestTimeoutPublisher_FiresOnlyWhenOverdue(t *testing.T) {
	g := flowgraph.New()
	rec := topictest.NewRecorder[valueA](g, "sink")
	pub := flowgraph.NewTimeoutPublisher[valueA](g)

	epoch := time.Unix(0, 0)
	pub.Schedule(epoch.Add(100*time.Second), valueA{V: 7})

	pub.FireOverdue(epoch.Add(99 * time.Second))
	require.NoError(t, g.EvaluateGraph(context.Background()))
	assert.Empty(t, rec.Values, "an overdue check before the deadline must not seed anything")

	pub.FireOverdue(epoch.Add(101 * time.Second))
	require.NoError(t, g.EvaluateGraph(context.Background()))
	require.Len(t, rec.Values, 1)
	assert.Equal(t, 7, rec.Values[0].V)
}

func TestTimeoutPublisher_CancelWithdrawsBeforeFire(t *testing.T) {
	g := flowgraph.New()
	rec := topictest.NewRecorder[valueA](g, "sink")
	pub := flowgraph.NewTimeoutPublisher[valueA](g)

	epoch := time.Unix(0, 0)
	token := pub.Schedule(epoch.Add(100*time.Second), valueA{V: 7})
	pub.Cancel(token)

	pub.FireOverdue(epoch.Add(200 * time.Second))
	require.NoError(t, g.EvaluateGraph(context.Background()))
	assert.Empty(t, rec.Values)
}

func TestTimeoutPublisher_FiresInDeadlineOrder(t *testing.T) {
	g := flowgraph.New()
	rec := topictest.NewRecorder[valueA](g, "sink")
	pub := flowgraph.NewTimeoutPublisher[valueA](g)

	epoch := time.Unix(0, 0)
	pub.Schedule(epoch.Add(300*time.Second), valueA{V: 3})
	pub.Schedule(epoch.Add(100*time.Second), valueA{V: 1})
	pub.Schedule(epoch.Add(200*time.Second), valueA{V: 2})

	pub.FireOverdue(epoch.Add(400 * time.Second))
	require.NoError(t, g.EvaluateGraph(context.Background()))

	require.Len(t, rec.Values, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{rec.Values[0].V, rec.Values[1].V, rec.Values[2].V})
}
