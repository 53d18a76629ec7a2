package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/exa-labs/exa-mcp-server-go/internal/exa"
	"github.com/exa-labs/exa-mcp-server-go/internal/registry"
)

// fakeSearcher records the last request and returns canned data.
type fakeSearcher struct {
	lastReq *exa.SearchRequest
	resp    *exa.SearchResponse
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, req *exa.SearchRequest) (*exa.SearchResponse, error) {
	f.lastReq = req

	if f.err != nil {
		return nil, f.err
	}

	return f.resp, nil
}

func sampleResults() *exa.SearchResponse {
	return &exa.SearchResponse{
		RequestID: "req-1",
		Results: []exa.SearchResult{
			{
				ID:            "r1",
				Title:         "Introduction to Go Concurrency",
				URL:           "https://example.com/go-concurrency",
				Author:        "Jane Doe",
				PublishedDate: "2024-05-01",
				Text:          "Goroutines are lightweight threads managed by the Go runtime.",
			},
			{
				ID:   "r2",
				URL:  "https://example.com/untitled",
				Text: "A page without a title.",
			},
		},
	}
}

// callTool invokes a descriptor's handler with JSON arguments and asserts
// the handler itself never returns a Go error.
func callTool(t *testing.T, desc *registry.Descriptor, args string) *mcp.CallToolResult {
	t.Helper()

	result, err := desc.Handler(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      desc.Tool.Name,
			Arguments: json.RawMessage(args),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	return result
}

// resultText extracts the single text block from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])

	return text.Text
}

func TestFormatResults(t *testing.T) {
	out := formatResults("Results:", sampleResults().Results)

	require.Contains(t, out, "1. **Introduction to Go Concurrency**")
	require.Contains(t, out, "URL: https://example.com/go-concurrency")
	require.Contains(t, out, "Author: Jane Doe")
	require.Contains(t, out, "Published: 2024-05-01")
	require.Contains(t, out, "2. **Untitled**")
	require.NotContains(t, out, "Author: \n")
}

func TestOrUntitled(t *testing.T) {
	require.Equal(t, "Untitled", orUntitled(""))
	require.Equal(t, "Untitled", orUntitled("   "))
	require.Equal(t, "A Title", orUntitled("A Title"))
}
