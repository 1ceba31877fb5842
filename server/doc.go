// Package server exposes the content pipeline over a JSON HTTP API:
// post creation, text and meme refinement, content analysis, and video
// job polling. Requests are validated at the boundary before any workflow
// starts; each request gets a UUID exposed as X-Request-Id and logged
// alongside method, path, status and duration.
package server
