package flowgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/flowgraph"
)

func TestRegister_PanicsOnDoubleRegistration(t *testing.T) {
	g := flowgraph.New()
	n := &noopDetector{}
	flowgraph.Register(g, "n", &n.Base, n)
	assert.PanicsWithValue(t, "flowgraph: detector already registered: n", func() {
		flowgraph.Register(g, "n", &n.Base, n)
	})
}

type noopDetector struct {
	flowgraph.Base
}

func TestSubscribe_PanicsBeforeRegister(t *testing.T) {
	base := &flowgraph.Base{}
	assert.PanicsWithValue(t, "flowgraph: Subscribe/SetupPublishing called before Register", func() {
		flowgraph.Subscribe(base, func(v valueA) {})
	})
}

func TestBase_NameReturnsRegisteredName(t *testing.T) {
	g := flowgraph.New()
	n := &noopDetector{}
	flowgraph.Register(g, "my-detector", &n.Base, n)
	assert.Equal(t, "my-detector", n.Name())
}
