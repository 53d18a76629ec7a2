package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/exa-labs/exa-mcp-server-go/internal/exa"
)

// Shared argument bounds and defaults across the search tools.
const (
	defaultNumResults = 5
	maxNumResults     = 50

	defaultMaxCharacters = 3000
	minMaxCharacters     = 100
	maxMaxCharacters     = 10000
)

// Searcher is the slice of the Exa client the tool handlers need.
// *exa.Client satisfies it; tests substitute fakes.
type Searcher interface {
	Search(ctx context.Context, req *exa.SearchRequest) (*exa.SearchResponse, error)
}

// textResult wraps text in a successful single-block tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult wraps a human-readable failure description in a tool result.
// Handlers return these instead of errors so the client can render the text.
func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// formatResults renders search hits as numbered markdown entries.
func formatResults(header string, results []exa.SearchResult) string {
	var b strings.Builder

	b.WriteString(header)
	b.WriteString("\n")

	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. **%s**\n", i+1, orUntitled(r.Title))
		fmt.Fprintf(&b, "   URL: %s\n", r.URL)

		if r.Author != "" {
			fmt.Fprintf(&b, "   Author: %s\n", r.Author)
		}

		if r.PublishedDate != "" {
			fmt.Fprintf(&b, "   Published: %s\n", r.PublishedDate)
		}

		if text := strings.TrimSpace(r.Text); text != "" {
			fmt.Fprintf(&b, "   %s\n", text)
		}
	}

	return b.String()
}

func orUntitled(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Untitled"
	}

	return title
}
