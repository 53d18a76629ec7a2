package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exa-labs/exa-mcp-server-go/internal/logging"
	"github.com/exa-labs/exa-mcp-server-go/internal/protocol"
	"github.com/exa-labs/exa-mcp-server-go/internal/registry"
)

// syncBuffer is a goroutine-safe bytes.Buffer for capturing transport output.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func newStdioServer(t *testing.T) *protocol.Server {
	t.Helper()

	reg := registry.New(logging.Nop())
	require.NoError(t, reg.Register(&registry.Descriptor{
		Tool: &mcp.Tool{
			Name:        "web_search",
			Description: "Search the web",
			InputSchema: &jsonschema.Schema{Type: "object"},
		},
		Handler: func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "ok"}}}, nil
		},
		Enabled: true,
	}))

	return protocol.NewServer(logging.Nop(), reg)
}

func TestStdioRoundTrip(t *testing.T) {
	in := strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}` + "\n" +
			`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")

	var out syncBuffer

	tr := newStdio(logging.Nop(), newStdioServer(t), in, &out)

	// Run returns nil when stdin reaches EOF.
	require.NoError(t, tr.Run(context.Background()))

	scanner := bufio.NewScanner(strings.NewReader(out.String()))

	var responses []protocol.Response

	for scanner.Scan() {
		var resp protocol.Response
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}

	// The notification produced no response.
	require.Len(t, responses, 2)
	assert.Equal(t, "1", string(responses[0].ID))
	assert.Equal(t, "2", string(responses[1].ID))

	listResult, err := json.Marshal(responses[1].Result)
	require.NoError(t, err)

	var list mcp.ListToolsResult
	require.NoError(t, json.Unmarshal(listResult, &list))
	require.Len(t, list.Tools, 1)
	assert.Equal(t, "web_search", list.Tools[0].Name)
}

func TestStdioSkipsBlankLines(t *testing.T) {
	in := strings.NewReader("\n\n" + `{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")

	var out syncBuffer

	tr := newStdio(logging.Nop(), newStdioServer(t), in, &out)
	require.NoError(t, tr.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestStdioCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var out syncBuffer

	// A reader that never produces input keeps Run blocked until cancel.
	tr := newStdio(logging.Nop(), newStdioServer(t), blockingReader{}, &out)

	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("transport did not stop after cancellation")
	}
}

// blockingReader blocks forever, simulating an idle stdin.
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
