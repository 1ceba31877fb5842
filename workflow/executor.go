package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Run executes the workflow against a fresh State seeded from initialState.
// Nodes run level by level, with nodes at the same level running in
// parallel (subject to WithMaxConcurrency).
//
// A failing node never aborts the run: its error is recorded in the Result
// and its dependents still execute. Steps that need upstream output are
// expected to read the state and degrade on their own. The only way a run
// ends early is context cancellation or the configured run timeout, in
// which case remaining levels are abandoned and their nodes stay pending.
//
// Run is safe for concurrent use on the same Workflow: every call gets its
// own State and Result.
func (workflow *Workflow) Run(ctx context.Context, initialState map[string]any) (*Result, error) {
	runStart := time.Now()

	if workflow.config.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, workflow.config.runTimeout)
		defer cancel()
	}

	state := newState(initialState)
	run := &runState{
		results: make(map[string]NodeResult, len(workflow.nodes)),
	}
	for nodeID := range workflow.nodes {
		run.results[nodeID] = NodeResult{Status: NodePending}
	}

	var runError error
	for levelIndex, levelNodeIDs := range workflow.levels {
		if err := ctx.Err(); err != nil {
			runError = fmt.Errorf("run canceled before level %d: %w", levelIndex, err)
			break
		}

		workflow.executeLevel(ctx, levelNodeIDs, state, run)
	}

	result := &Result{
		State:    state.Snapshot(),
		Nodes:    run.results,
		Duration: time.Since(runStart),
	}

	if runError != nil {
		return result, runError
	}
	return result, nil
}

// runState collects per-node results for a single run.
type runState struct {
	mu      sync.Mutex
	results map[string]NodeResult
}

func (run *runState) set(nodeID string, result NodeResult) {
	run.mu.Lock()
	defer run.mu.Unlock()
	run.results[nodeID] = result
}

// executeLevel runs all nodes at a topological level in parallel,
// respecting the maxConcurrency limit. It returns after every node at the
// level has finished, successfully or not.
func (workflow *Workflow) executeLevel(ctx context.Context, levelNodeIDs []string, state *State, run *runState) {
	var waitGroup sync.WaitGroup

	var semaphore chan struct{}
	if workflow.config.maxConcurrency > 0 {
		semaphore = make(chan struct{}, workflow.config.maxConcurrency)
	}

	for _, nodeID := range levelNodeIDs {
		waitGroup.Add(1)

		go func(executingNodeID string) {
			defer waitGroup.Done()

			if semaphore != nil {
				select {
				case semaphore <- struct{}{}:
					defer func() { <-semaphore }()
				case <-ctx.Done():
					return
				}
			}

			workflow.executeNode(ctx, executingNodeID, state, run)
		}(nodeID)
	}

	waitGroup.Wait()
}

// executeNode runs a single node's step and merges its update into the
// shared state. The state lock is never held while the step executes; the
// merge happens after the step returns.
func (workflow *Workflow) executeNode(ctx context.Context, nodeID string, state *State, run *runState) {
	workflowNode := workflow.nodes[nodeID]
	logger := workflow.config.logger

	run.set(nodeID, NodeResult{Status: NodeRunning})
	logger.Debug("node started", "node", nodeID)

	stepStart := time.Now()
	update, stepError := workflowNode.step(ctx, state)
	stepDuration := time.Since(stepStart)

	if stepError == nil {
		stepError = validateUpdate(workflowNode, update)
	}

	if stepError != nil {
		run.set(nodeID, NodeResult{
			Status:   NodeFailed,
			Err:      fmt.Errorf("node %q failed: %w", nodeID, stepError),
			Duration: stepDuration,
		})
		logger.Warn("node failed", "node", nodeID, "duration", stepDuration, "error", stepError.Error())
		return
	}

	state.merge(update)
	run.set(nodeID, NodeResult{
		Status:   NodeCompleted,
		Update:   update,
		Duration: stepDuration,
	})
	logger.Debug("node completed", "node", nodeID, "duration", stepDuration)
}

// validateUpdate checks that a step only wrote keys it declared at build
// time. Undeclared writes are rejected so that the disjoint-output
// guarantee established by Build() holds at runtime too.
func validateUpdate(workflowNode *node, update Update) error {
	for key := range update {
		if !workflowNode.outputs[key] {
			return fmt.Errorf("update key %q is not a declared output", key)
		}
	}
	return nil
}
