// Package client provides the LLM access layer used by the pipeline steps:
// a stateless [Client] for plain text completions and a generic [Structured]
// extractor that constrains the model with a JSON schema and parses the
// response into a typed value.
package client
