// Package tools defines the search tools exposed by the server.
//
// Each constructor returns a registry.Descriptor pairing an MCP tool
// definition (name, LLM-facing description, input schema) with its handler.
// Handlers receive already-validated arguments, call the Exa search API, and
// render the outcome as text content. Every failure path, including a missing
// API credential and an empty result set, comes back as a tool result with
// IsError set rather than a raised error.
package tools
