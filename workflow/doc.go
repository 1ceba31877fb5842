// Package workflow implements a directed acyclic graph (DAG) of processing
// steps that communicate through a shared key-value state.
//
// Nodes execute in topological order, with independent nodes at the same
// level running in parallel. Each node declares at build time which state
// keys it writes ([WithOutputs]); Build() rejects workflows where two nodes
// declare the same key, so parallel steps can never race on a state entry.
// A step returns its writes as an [Update], which the executor merges into
// the [State] after the step finishes. The state lock is never held while
// a step runs.
//
// Failures are partial, not fatal: a failing node is recorded in the
// [Result] and its dependents still execute. Steps that consume upstream
// output inspect the state themselves and degrade when the data they need
// is missing. Only context cancellation (or the run timeout) stops a run
// early.
//
// A built [Workflow] is immutable and safe for concurrent Run calls; every
// run gets its own State.
//
// Example:
//
//	wf, err := workflow.NewBuilder(workflow.WithMaxConcurrency(4)).
//	    AddNode("fetch", fetchStep, workflow.WithOutputs("articles")).
//	    AddNode("write", writeStep, workflow.WithOutputs("draft")).
//	    AddNode("illustrate", illustrateStep, workflow.WithOutputs("image_url")).
//	    AddEdge("fetch", "write").
//	    AddEdge("fetch", "illustrate").
//	    Build()
//
//	result, err := wf.Run(ctx, map[string]any{"topic": "release notes"})
//	fmt.Println(result.State["draft"])
package workflow
