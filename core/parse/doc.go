// Package parse converts raw LLM response strings into Go values. Structured
// output is requested with a JSON schema, but models still occasionally return
// slightly malformed JSON; this package repairs and retries before giving up.
package parse
