// Package transport provides the wire bindings for the protocol server.
//
// Two bindings exist: Stdio moves line-delimited JSON-RPC messages over the
// process's standard streams for a single embedded client, and SSE serves many
// concurrent network sessions over a server-sent-events stream paired with a
// POST endpoint for client-to-server messages. Bearer-token authentication
// applies to SSE session establishment only.
package transport
