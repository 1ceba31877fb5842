// Package jsonschema generates JSON Schema documents from Go struct types
// via reflection. The schemas are attached to LLM requests to constrain
// structured output (template selection, caption sets, content analysis).
package jsonschema
