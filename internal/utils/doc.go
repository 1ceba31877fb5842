// Package utils contains small internal helpers shared by the provider
// clients: synchronous HTTP calls with typed JSON decoding, and string
// truncation for log and error output.
package utils
