package workflow

import (
	"context"
	"log/slog"
	"time"
)

// NodeStatus represents the lifecycle status of a node during a workflow run.
type NodeStatus string

const (
	// NodePending indicates the node has not started execution yet.
	NodePending NodeStatus = "pending"

	// NodeRunning indicates the node is currently executing.
	NodeRunning NodeStatus = "running"

	// NodeCompleted indicates the node finished and its update was merged.
	NodeCompleted NodeStatus = "completed"

	// NodeFailed indicates the node returned an error or produced an
	// update that violated its declared outputs.
	NodeFailed NodeStatus = "failed"
)

// Update is the set of state keys a step writes when it finishes.
// Every key must be one of the node's declared outputs.
type Update map[string]any

// StepFunc is the processing logic of a single workflow node. It reads the
// shared state and returns the keys it wants merged into it.
//
// A step runs only after all of its predecessors have finished, but it runs
// regardless of whether they succeeded. Steps that depend on upstream output
// must inspect the state themselves and degrade gracefully when the data
// they need is missing.
//
// Returning a nil Update with a nil error is valid and merges nothing.
type StepFunc func(ctx context.Context, state *State) (Update, error)

// NodeResult records the outcome of a single node within one run.
type NodeResult struct {
	// Status is the node's final status for the run.
	Status NodeStatus

	// Update is the state update the node produced, nil on failure.
	Update Update

	// Err is the execution or merge error, nil on success.
	Err error

	// Duration is the wall-clock time the step took to execute.
	Duration time.Duration
}

// Result is the outcome of a workflow run. A run always produces a Result:
// node failures are recorded per node rather than aborting the run.
type Result struct {
	// State is a snapshot of the shared state after the run finished.
	State map[string]any

	// Nodes maps each node ID to its outcome.
	Nodes map[string]NodeResult

	// Duration is the total wall-clock time of the run.
	Duration time.Duration
}

// Failed returns the IDs of nodes that failed during the run, in no
// particular order. An empty slice means every node completed.
func (result *Result) Failed() []string {
	failed := make([]string, 0)
	for nodeID, nodeResult := range result.Nodes {
		if nodeResult.Status == NodeFailed {
			failed = append(failed, nodeID)
		}
	}
	return failed
}

// node is a single processing step, created by the Builder.
type node struct {
	// id is the unique identifier for this node within the workflow.
	id string

	// step contains the processing logic for this node.
	step StepFunc

	// outputs lists the state keys this node is allowed to write.
	// Declared at build time so that concurrent nodes can never race
	// on the same key.
	outputs map[string]bool

	// dependencies lists the IDs of nodes that must finish before this
	// node can execute. Populated during Build() from the edges.
	dependencies []string
}

// edge is a directed dependency between two nodes.
type edge struct {
	from string
	to   string
}

// config holds workflow-level settings populated by Options.
type config struct {
	// maxConcurrency limits the number of nodes executing in parallel.
	// Zero means unlimited.
	maxConcurrency int

	// runTimeout is the maximum duration for an entire run. Zero means
	// no timeout.
	runTimeout time.Duration

	// logger receives node lifecycle events. Defaults to slog.Default().
	logger *slog.Logger
}

// Workflow is a validated, executable directed acyclic graph of processing
// steps that communicate through a shared key-value state.
//
// A Workflow is created via Builder.Build(), which validates the structure
// (cycle detection, edge validation, disjoint output keys) and computes the
// topological level grouping.
//
// A Workflow is immutable after Build and safe for concurrent Run calls:
// each run gets its own State and Result.
type Workflow struct {
	// nodes maps node IDs to their definitions.
	nodes map[string]*node

	// levels contains node IDs grouped by topological level. Level 0
	// nodes have no dependencies; level N nodes depend only on nodes
	// in levels < N.
	levels [][]string

	// config holds the workflow's execution configuration.
	config *config
}
