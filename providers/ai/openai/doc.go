// Package openai implements ai.Provider using the OpenAI chat completions
// REST API directly, without the vendor SDK. Structured output is requested
// through the json_schema response format.
package openai
