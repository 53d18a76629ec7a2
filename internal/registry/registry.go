package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/exa-labs/exa-mcp-server-go/internal/errors"
)

// Descriptor is one registered tool: its MCP definition, its handler, and
// whether it is enabled for discovery and invocation.
type Descriptor struct {
	Tool    *mcp.Tool
	Handler mcp.ToolHandler
	Enabled bool

	// resolved is the tool's input schema, resolved once at registration.
	resolved *jsonschema.Resolved
}

// ValidateArguments checks raw JSON arguments against the tool's input schema.
// A nil return means the arguments are safe to hand to the tool handler.
func (d *Descriptor) ValidateArguments(raw json.RawMessage) error {
	var args any = map[string]any{}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return &errors.ValidationError{Tool: d.Tool.Name, Err: err}
		}
	}

	if err := d.resolved.Validate(args); err != nil {
		return &errors.ValidationError{Tool: d.Tool.Name, Err: err}
	}

	return nil
}

// Registry is the process-wide mapping from tool name to descriptor.
//
// Registration happens once, sequentially, before serving begins; the registry
// is read-only afterwards. The mutex makes that contract safe even though
// transports may serve many sessions concurrently.
type Registry struct {
	log *slog.Logger

	mu      sync.RWMutex
	tools   map[string]*Descriptor
	order   []string        // registration order, for stable listings
	allowed map[string]bool // nil means no allow-set configured
}

// New creates an empty registry.
func New(log *slog.Logger) *Registry {
	return &Registry{
		log:   log.With("component", "registry"),
		tools: make(map[string]*Descriptor, 8),
	}
}

// SetAllowed configures an explicit allow-set of tool names. When set, List
// and Get expose exactly the named tools, regardless of their Enabled flag.
// An empty slice clears the allow-set.
func (r *Registry) SetAllowed(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(names) == 0 {
		r.allowed = nil
		return
	}

	r.allowed = make(map[string]bool, len(names))
	for _, name := range names {
		r.allowed[name] = true
	}
}

// Register adds a descriptor under its tool name. The tool's input schema is
// resolved here so schema mistakes fail at startup, not per call.
func (r *Registry) Register(d *Descriptor) error {
	if d.Tool == nil || d.Tool.Name == "" {
		return fmt.Errorf("register: descriptor has no tool name")
	}

	schema, ok := d.Tool.InputSchema.(*jsonschema.Schema)
	if !ok || schema == nil {
		return fmt.Errorf("register %q: input schema must be a *jsonschema.Schema", d.Tool.Name)
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("register %q: resolve input schema: %w", d.Tool.Name, err)
	}

	d.resolved = resolved

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[d.Tool.Name]; exists {
		return fmt.Errorf("register %q: %w", d.Tool.Name, errors.ErrDuplicateTool)
	}

	r.tools[d.Tool.Name] = d
	r.order = append(r.order, d.Tool.Name)

	r.log.Debug("Registered tool", "tool", d.Tool.Name, "enabled", d.Enabled)

	return nil
}

// List returns the MCP tool definitions visible for discovery, in
// registration order.
func (r *Registry) List() []*mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]*mcp.Tool, 0, len(r.order))

	for _, name := range r.order {
		d := r.tools[name]
		if r.visibleLocked(d) {
			tools = append(tools, d.Tool)
		}
	}

	return tools
}

// Get returns the descriptor for name. Tools hidden from discovery (disabled,
// or excluded by the allow-set) are treated as not found so that invocation
// always matches discovery.
func (r *Registry) Get(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.tools[name]
	if !exists || !r.visibleLocked(d) {
		return nil, fmt.Errorf("get %q: %w", name, errors.ErrToolNotFound)
	}

	return d, nil
}

// visibleLocked reports whether d is exposed. Callers hold r.mu.
func (r *Registry) visibleLocked(d *Descriptor) bool {
	if r.allowed != nil {
		return r.allowed[d.Tool.Name]
	}

	return d.Enabled
}
