// Package meme wraps an Imgflip-compatible captioning API: fetching the
// template catalog and rendering caption texts onto a chosen template.
package meme
