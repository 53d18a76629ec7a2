// Package errors defines error types for the Exa MCP server.
//
// This package provides structured error types covering the server's failure
// taxonomy: startup configuration, tool argument validation, and upstream API
// failures. All error types support error unwrapping and can be checked using
// errors.Is and errors.As.
package errors
