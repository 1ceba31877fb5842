package workflow

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Option is a functional option for configuring workflow behavior.
// Options are applied during Builder construction via NewBuilder.
type Option func(*config)

// NodeOption is a functional option for configuring individual node
// behavior. Node options are applied via Builder.AddNode.
type NodeOption func(*node)

// WithMaxConcurrency limits the number of nodes that can execute in parallel
// within the same topological level. A value of 0 (default) means unlimited
// concurrency.
func WithMaxConcurrency(maxConcurrency int) Option {
	return func(workflowConfig *config) {
		workflowConfig.maxConcurrency = maxConcurrency
	}
}

// WithRunTimeout sets the maximum duration for an entire run. When exceeded,
// running steps receive a canceled context and remaining levels are
// abandoned. A value of 0 (default) means no timeout.
func WithRunTimeout(timeout time.Duration) Option {
	return func(workflowConfig *config) {
		workflowConfig.runTimeout = timeout
	}
}

// WithLogger sets the logger that receives node lifecycle events.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(workflowConfig *config) {
		workflowConfig.logger = logger
	}
}

// WithOutputs declares the state keys a node is allowed to write. Build()
// rejects workflows where two nodes declare the same key, which guarantees
// that parallel nodes never race on a state entry.
//
// A node with no declared outputs must return an empty or nil Update.
func WithOutputs(keys ...string) NodeOption {
	return func(workflowNode *node) {
		for _, key := range keys {
			workflowNode.outputs[key] = true
		}
	}
}

// Builder constructs a validated Workflow using a fluent API. Nodes and
// edges are added incrementally, and Build() performs structural validation
// including cycle detection via Kahn's algorithm.
//
// The builder enforces the following constraints:
//   - Node IDs must be unique
//   - Edge endpoints must reference existing nodes
//   - The graph must be acyclic
//   - Output keys must be disjoint across nodes
//
// Example:
//
//	wf, err := workflow.NewBuilder().
//	    AddNode("fetch", fetchStep, workflow.WithOutputs("articles")).
//	    AddNode("summarize", summarizeStep, workflow.WithOutputs("summary")).
//	    AddEdge("fetch", "summarize").
//	    Build()
type Builder struct {
	config *config

	// nodes stores all registered nodes keyed by their ID.
	nodes map[string]*node

	// edges stores all registered directed edges.
	edges []*edge

	// nodeOrder preserves insertion order for deterministic level output.
	nodeOrder []string

	// buildErrors accumulates validation errors from AddNode/AddEdge and
	// is reported when Build() is called.
	buildErrors []error
}

// NewBuilder creates a new Builder. Workflow-level options
// (WithMaxConcurrency, WithRunTimeout, WithLogger) are applied here; node
// options are applied via AddNode.
func NewBuilder(opts ...Option) *Builder {
	workflowConfig := &config{}
	for _, opt := range opts {
		opt(workflowConfig)
	}
	if workflowConfig.logger == nil {
		workflowConfig.logger = slog.Default()
	}

	return &Builder{
		config:      workflowConfig,
		nodes:       make(map[string]*node),
		edges:       make([]*edge, 0),
		nodeOrder:   make([]string, 0),
		buildErrors: make([]error, 0),
	}
}

// AddNode registers a processing node with the given unique ID and step.
// Returns the builder for chaining. If a node with the same ID already
// exists, a build error is recorded and reported at Build() time.
func (builder *Builder) AddNode(nodeID string, step StepFunc, opts ...NodeOption) *Builder {
	if nodeID == "" {
		builder.buildErrors = append(builder.buildErrors, fmt.Errorf("node ID must not be empty"))
		return builder
	}

	if step == nil {
		builder.buildErrors = append(builder.buildErrors, fmt.Errorf("step must not be nil for node %q", nodeID))
		return builder
	}

	if _, exists := builder.nodes[nodeID]; exists {
		builder.buildErrors = append(builder.buildErrors, fmt.Errorf("duplicate node ID %q", nodeID))
		return builder
	}

	workflowNode := &node{
		id:      nodeID,
		step:    step,
		outputs: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(workflowNode)
	}

	builder.nodes[nodeID] = workflowNode
	builder.nodeOrder = append(builder.nodeOrder, nodeID)

	return builder
}

// AddEdge creates a directed edge from one node to another, indicating that
// the source node must finish before the target node can execute.
//
// Returns the builder for chaining. If either endpoint does not exist,
// a build error is recorded and reported at Build() time.
func (builder *Builder) AddEdge(from, to string) *Builder {
	if from == "" || to == "" {
		builder.buildErrors = append(builder.buildErrors, fmt.Errorf("edge endpoints must not be empty (from=%q, to=%q)", from, to))
		return builder
	}

	if from == to {
		builder.buildErrors = append(builder.buildErrors, fmt.Errorf("self-loop detected: node %q cannot have an edge to itself", from))
		return builder
	}

	builder.edges = append(builder.edges, &edge{from: from, to: to})

	return builder
}

// Build validates the workflow structure and produces an executable
// Workflow. It performs the following validations:
//
//  1. No accumulated build errors from AddNode/AddEdge
//  2. At least one node exists
//  3. All edge endpoints reference existing nodes, no duplicate edges
//  4. No two nodes declare the same output key
//  5. The graph is acyclic (validated via Kahn's algorithm)
//
// On success, it computes the topological level grouping.
func (builder *Builder) Build() (*Workflow, error) {
	if len(builder.buildErrors) > 0 {
		return nil, fmt.Errorf("workflow build errors: %w", errors.Join(builder.buildErrors...))
	}

	if len(builder.nodes) == 0 {
		return nil, fmt.Errorf("workflow must contain at least one node")
	}

	if err := builder.validateEdges(); err != nil {
		return nil, err
	}

	if err := builder.validateOutputs(); err != nil {
		return nil, err
	}

	inDegree, adjacency := builder.buildAdjacency()

	levels, err := kahnLevels(inDegree, adjacency, builder.nodeOrder)
	if err != nil {
		return nil, err
	}

	builder.populateDependencies()

	return &Workflow{
		nodes:  builder.nodes,
		levels: levels,
		config: builder.config,
	}, nil
}

// validateEdges checks that all edge endpoints reference existing nodes
// and that there are no duplicate edges.
func (builder *Builder) validateEdges() error {
	edgeSet := make(map[string]bool)

	for _, workflowEdge := range builder.edges {
		if _, exists := builder.nodes[workflowEdge.from]; !exists {
			return fmt.Errorf("edge references non-existent source node %q", workflowEdge.from)
		}
		if _, exists := builder.nodes[workflowEdge.to]; !exists {
			return fmt.Errorf("edge references non-existent target node %q", workflowEdge.to)
		}

		edgeKey := workflowEdge.from + "->" + workflowEdge.to
		if edgeSet[edgeKey] {
			return fmt.Errorf("duplicate edge from %q to %q", workflowEdge.from, workflowEdge.to)
		}
		edgeSet[edgeKey] = true
	}

	return nil
}

// validateOutputs checks that no two nodes declare the same output key,
// so that parallel merges can never write the same state entry.
func (builder *Builder) validateOutputs() error {
	keyOwner := make(map[string]string)

	for _, nodeID := range builder.nodeOrder {
		for key := range builder.nodes[nodeID].outputs {
			if owner, taken := keyOwner[key]; taken {
				return fmt.Errorf("output key %q declared by both %q and %q", key, owner, nodeID)
			}
			keyOwner[key] = nodeID
		}
	}

	return nil
}

// buildAdjacency constructs the in-degree map and adjacency list from the
// registered nodes and edges. Every node starts with in-degree 0.
func (builder *Builder) buildAdjacency() (map[string]int, map[string][]string) {
	inDegree := make(map[string]int, len(builder.nodes))
	adjacency := make(map[string][]string, len(builder.nodes))

	for nodeID := range builder.nodes {
		inDegree[nodeID] = 0
		adjacency[nodeID] = make([]string, 0)
	}

	for _, workflowEdge := range builder.edges {
		adjacency[workflowEdge.from] = append(adjacency[workflowEdge.from], workflowEdge.to)
		inDegree[workflowEdge.to]++
	}

	return inDegree, adjacency
}

// populateDependencies fills each node's dependencies list from the edges.
func (builder *Builder) populateDependencies() {
	for _, workflowEdge := range builder.edges {
		targetNode := builder.nodes[workflowEdge.to]
		targetNode.dependencies = append(targetNode.dependencies, workflowEdge.from)
	}
}

// kahnLevels performs Kahn's algorithm for topological sorting, returning
// node IDs grouped by level (level 0 = roots). It returns an error when a
// cycle is detected. Within each level, nodes are sorted by insertion order
// for deterministic scheduling.
func kahnLevels(inDegree map[string]int, adjacency map[string][]string, nodeOrder []string) ([][]string, error) {
	nodePosition := make(map[string]int, len(nodeOrder))
	for index, nodeID := range nodeOrder {
		nodePosition[nodeID] = index
	}

	currentLevel := make([]string, 0)
	for nodeID, degree := range inDegree {
		if degree == 0 {
			currentLevel = append(currentLevel, nodeID)
		}
	}
	sort.Slice(currentLevel, func(indexA, indexB int) bool {
		return nodePosition[currentLevel[indexA]] < nodePosition[currentLevel[indexB]]
	})

	levels := make([][]string, 0)
	processedCount := 0

	for len(currentLevel) > 0 {
		levels = append(levels, currentLevel)
		processedCount += len(currentLevel)

		nextLevel := make([]string, 0)
		for _, nodeID := range currentLevel {
			for _, neighbor := range adjacency[nodeID] {
				inDegree[neighbor]--
				if inDegree[neighbor] == 0 {
					nextLevel = append(nextLevel, neighbor)
				}
			}
		}

		sort.Slice(nextLevel, func(indexA, indexB int) bool {
			return nodePosition[nextLevel[indexA]] < nodePosition[nextLevel[indexB]]
		})

		currentLevel = nextLevel
	}

	if processedCount != len(inDegree) {
		cycleNodes := make([]string, 0)
		for nodeID, degree := range inDegree {
			if degree > 0 {
				cycleNodes = append(cycleNodes, nodeID)
			}
		}
		sort.Strings(cycleNodes)
		return nil, fmt.Errorf("cycle detected in workflow involving nodes: %v", cycleNodes)
	}

	return levels, nil
}
