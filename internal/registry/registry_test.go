package registry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exa-labs/exa-mcp-server-go/internal/errors"
	"github.com/exa-labs/exa-mcp-server-go/internal/logging"
)

func newDescriptor(name string, enabled bool) *Descriptor {
	return &Descriptor{
		Tool: &mcp.Tool{
			Name:        name,
			Description: "test tool " + name,
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"query": {Type: "string"},
				},
				Required: []string{"query"},
			},
		},
		Handler: func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "ok"}}}, nil
		},
		Enabled: enabled,
	}
}

func TestRegisterAndGet(t *testing.T) {
	r := New(logging.Nop())

	require.NoError(t, r.Register(newDescriptor("web_search", true)))

	d, err := r.Get("web_search")
	require.NoError(t, err)
	assert.Equal(t, "web_search", d.Tool.Name)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, errors.ErrToolNotFound)
}

func TestRegisterDuplicate(t *testing.T) {
	r := New(logging.Nop())

	require.NoError(t, r.Register(newDescriptor("web_search", true)))
	assert.ErrorIs(t, r.Register(newDescriptor("web_search", true)), errors.ErrDuplicateTool)
}

func TestListEnabledOnly(t *testing.T) {
	r := New(logging.Nop())

	require.NoError(t, r.Register(newDescriptor("web_search", true)))
	require.NoError(t, r.Register(newDescriptor("twitter_search", false)))

	tools := r.List()
	require.Len(t, tools, 1)
	assert.Equal(t, "web_search", tools[0].Name)

	// A disabled tool cannot be invoked either.
	_, err := r.Get("twitter_search")
	assert.ErrorIs(t, err, errors.ErrToolNotFound)
}

func TestListIdempotent(t *testing.T) {
	r := New(logging.Nop())

	require.NoError(t, r.Register(newDescriptor("a", true)))
	require.NoError(t, r.Register(newDescriptor("b", true)))

	first := r.List()
	second := r.List()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
	}
}

func TestAllowSet(t *testing.T) {
	r := New(logging.Nop())

	require.NoError(t, r.Register(newDescriptor("web_search", true)))
	require.NoError(t, r.Register(newDescriptor("seo_outline_generator", true)))

	r.SetAllowed([]string{"web_search"})

	tools := r.List()
	require.Len(t, tools, 1)
	assert.Equal(t, "web_search", tools[0].Name)

	_, err := r.Get("seo_outline_generator")
	assert.ErrorIs(t, err, errors.ErrToolNotFound)

	// The allow-set overrides the Enabled flag in both directions.
	require.NoError(t, r.Register(newDescriptor("twitter_search", false)))
	r.SetAllowed([]string{"twitter_search"})

	tools = r.List()
	require.Len(t, tools, 1)
	assert.Equal(t, "twitter_search", tools[0].Name)

	_, err = r.Get("twitter_search")
	assert.NoError(t, err)
}

func TestValidateArguments(t *testing.T) {
	r := New(logging.Nop())
	require.NoError(t, r.Register(newDescriptor("web_search", true)))

	d, err := r.Get("web_search")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, d.ValidateArguments(json.RawMessage(`{"query":"espresso"}`)))
	})

	t.Run("missing required field", func(t *testing.T) {
		err := d.ValidateArguments(json.RawMessage(`{}`))

		var verr *errors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "web_search", verr.Tool)
	})

	t.Run("wrong type", func(t *testing.T) {
		assert.Error(t, d.ValidateArguments(json.RawMessage(`{"query":42}`)))
	})

	t.Run("malformed json", func(t *testing.T) {
		assert.Error(t, d.ValidateArguments(json.RawMessage(`{"query"`)))
	})
}
