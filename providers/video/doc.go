// Package video wraps an asynchronous image-to-video synthesis service.
// Submission returns a tracking ID; completion is observed by polling.
package video
