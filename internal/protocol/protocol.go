package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/exa-labs/exa-mcp-server-go/internal/registry"
)

// protocolVersion is the MCP revision this server speaks.
const protocolVersion = "2024-11-05"

// nullID is the response ID used when the request ID could not be recovered.
var nullID = json.RawMessage("null")

// Server routes MCP requests to the tool registry. It is transport
// independent: transports hand it raw messages and deliver whatever bytes it
// returns.
//
// A single Server may back many concurrent sessions. Handle keeps no per-call
// state on the Server, so invocations across sessions never interfere.
type Server struct {
	log          *slog.Logger
	registry     *registry.Registry
	info         *mcp.Implementation
	instructions string
}

// ServerOption configures a Server during construction.
type ServerOption func(*Server)

// WithServerInfo overrides the identity reported on initialize.
func WithServerInfo(name, version string) ServerOption {
	return func(s *Server) {
		s.info = &mcp.Implementation{Name: name, Version: version}
	}
}

// WithInstructions sets the usage instructions reported on initialize.
func WithInstructions(instructions string) ServerOption {
	return func(s *Server) {
		s.instructions = instructions
	}
}

// NewServer creates a protocol server over the given registry.
func NewServer(log *slog.Logger, reg *registry.Registry, opts ...ServerOption) *Server {
	s := &Server{
		log:      log.With("component", "protocol"),
		registry: reg,
		info:     &mcp.Implementation{Name: "exa-search-server", Version: "1.0.0"},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handle processes one raw JSON-RPC message and returns the marshaled
// response, or nil when no response is due (notifications).
//
// Handler faults never escape as protocol faults: tool failures come back as
// CallToolResult with IsError set, so the calling LLM can read them.
func (s *Server) Handle(ctx context.Context, data []byte) []byte {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return s.marshalError(nullID, CodeParseError, "parse error: "+err.Error())
	}

	if req.JSONRPC != Version {
		id := req.ID
		if len(id) == 0 {
			id = nullID
		}

		return s.marshalError(id, CodeInvalidRequest, fmt.Sprintf("unsupported jsonrpc version %q", req.JSONRPC))
	}

	if req.IsNotification() {
		s.log.Debug("Received notification", "method", req.Method)
		return nil
	}

	s.log.Debug("Handling request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return s.marshalResult(req.ID, &mcp.InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: &mcp.ServerCapabilities{
				Tools: &mcp.ToolCapabilities{},
			},
			ServerInfo:   s.info,
			Instructions: s.instructions,
		})

	case "ping":
		return s.marshalResult(req.ID, map[string]any{})

	case "tools/list":
		return s.marshalResult(req.ID, &mcp.ListToolsResult{Tools: s.registry.List()})

	case "tools/call":
		return s.handleToolCall(ctx, &req)

	default:
		return s.marshalError(req.ID, CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

// handleToolCall validates and dispatches one tool invocation.
func (s *Server) handleToolCall(ctx context.Context, req *Request) []byte {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.marshalError(req.ID, CodeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	if params.Name == "" {
		return s.marshalError(req.ID, CodeInvalidParams, "missing tool name")
	}

	desc, err := s.registry.Get(params.Name)
	if err != nil {
		return s.marshalError(req.ID, CodeInvalidParams, fmt.Sprintf("unknown tool: %s", params.Name))
	}

	// Invalid arguments never reach the handler.
	if err := desc.ValidateArguments(params.Arguments); err != nil {
		return s.marshalError(req.ID, CodeInvalidParams, err.Error())
	}

	s.log.Info("Invoking tool", "tool", params.Name)

	result, err := desc.Handler(ctx, &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      params.Name,
			Arguments: params.Arguments,
		},
	})
	if err != nil {
		// A handler fault becomes a readable tool result, not a protocol error.
		s.log.Warn("Tool handler failed", "tool", params.Name, "error", err)

		result = &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Tool %s failed: %v", params.Name, err)}},
			IsError: true,
		}
	}

	if result == nil {
		result = &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Tool %s returned no result", params.Name)}},
			IsError: true,
		}
	}

	return s.marshalResult(req.ID, result)
}

func (s *Server) marshalResult(id json.RawMessage, result any) []byte {
	data, err := json.Marshal(&Response{JSONRPC: Version, ID: id, Result: result})
	if err != nil {
		s.log.Error("Failed to marshal response", "error", err)
		return s.marshalError(id, CodeInternalError, "failed to marshal response")
	}

	return data
}

func (s *Server) marshalError(id json.RawMessage, code int, message string) []byte {
	if len(id) == 0 {
		id = nullID
	}

	data, err := json.Marshal(&Response{
		JSONRPC: Version,
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	})
	if err != nil {
		// Response with a static error cannot fail to marshal; guard anyway.
		s.log.Error("Failed to marshal error response", "error", err)
		return []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"internal error"}}`)
	}

	return data
}
