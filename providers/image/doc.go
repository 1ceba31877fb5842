// Package image wraps a DALL-E-compatible image generation endpoint.
package image
