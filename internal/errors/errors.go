package errors

import (
	"errors"
	"fmt"
)

// ServerError is the base interface for all errors raised by this server.
type ServerError interface {
	error
	IsServerError() bool
}

// Compile-time verification that all error types implement ServerError.
var (
	_ ServerError = (*ConfigError)(nil)
	_ ServerError = (*ValidationError)(nil)
	_ ServerError = (*StatusError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrToolNotFound indicates the requested tool is not registered or not enabled.
	ErrToolNotFound = errors.New("tool not found")

	// ErrMissingAPIKey indicates no Exa API key is configured for upstream calls.
	ErrMissingAPIKey = errors.New("EXA_API_KEY is not set")

	// ErrNoAPIToken indicates the SSE transport has no bearer token configured,
	// so every connection attempt is rejected.
	ErrNoAPIToken = errors.New("no API token configured")

	// ErrSessionNotFound indicates a message was posted for an unknown session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateTool indicates a tool name was registered twice.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrTransportClosed indicates a write was attempted on a closed transport.
	ErrTransportClosed = errors.New("transport closed")
)

// ConfigError indicates invalid or missing startup configuration.
// It is the only error class that terminates the process.
type ConfigError struct {
	Name   string // environment variable or flag name
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Name, e.Reason)
}

// IsServerError implements ServerError.
func (e *ConfigError) IsServerError() bool { return true }

// ValidationError indicates tool arguments did not satisfy the tool's input schema.
// It is returned to the caller as a protocol-level error and never reaches a handler.
type ValidationError struct {
	Tool string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %v", e.Tool, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsServerError implements ServerError.
func (e *ValidationError) IsServerError() bool { return true }

// StatusError indicates the upstream search API responded with a non-2xx status.
// The body is retained for human-readable reporting to the caller.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("exa API returned status %d", e.StatusCode)
	}

	return fmt.Sprintf("exa API returned status %d: %s", e.StatusCode, e.Body)
}

// IsServerError implements ServerError.
func (e *StatusError) IsServerError() bool { return true }
