package flowgraph

import "errors"

// ErrTopicNotFound is the failure raised when Publish is called against a
// Topic that was never resolved through a Graph (see Topic.Publish). It is
// a programmer error per the traversal's failure semantics: the engine does
// not recover from it.
var ErrTopicNotFound = errors.New("flowgraph: topic not registered with a graph")

// ErrCyclicGraph is returned by Graph.Compile when the detector dependency
// DAG, after excluding Lag-produced back edges, still contains a cycle.
var ErrCyclicGraph = errors.New("flowgraph: cyclic detector graph")
