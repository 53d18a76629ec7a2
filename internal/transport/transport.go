package transport

import "context"

// Transport serves a protocol server over one wire binding.
//
// Exactly one transport is active per process run: stdio for local embedding,
// or SSE for network clients.
type Transport interface {
	// Run serves until ctx is cancelled or the binding's input closes.
	Run(ctx context.Context) error
}
