// Package ai defines the provider-agnostic chat contract used by the content
// pipeline: a [Provider] interface plus the request/response models exchanged
// with it. Concrete implementations live in subpackages (openai).
package ai
