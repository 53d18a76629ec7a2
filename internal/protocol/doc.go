// Package protocol implements the MCP request router for the server.
//
// The Server handles the JSON-RPC 2.0 method families a tool server needs:
// initialize, ping, tools/list, and tools/call. It is independent of transport;
// both the stdio and SSE bindings feed it raw messages and forward its
// responses. Tool discovery works without an upstream credential, and tool
// handler failures are returned as tool results with IsError set rather than
// protocol faults.
package protocol
