package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/exa-labs/exa-mcp-server-go/internal/exa"
	"github.com/exa-labs/exa-mcp-server-go/internal/registry"
)

const webSearchDescription = `Search the web using Exa AI - performs real-time web searches and can scrape content from specific URLs. Supports configurable result counts and returns the content from the most relevant websites.`

// NewWebSearch builds the web_search tool.
func NewWebSearch(log *slog.Logger, searcher Searcher) *registry.Descriptor {
	log = log.With("tool", "web_search")

	return &registry.Descriptor{
		Tool: &mcp.Tool{
			Name:        "web_search",
			Description: webSearchDescription,
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"query": {
						Type:        "string",
						Description: "Search query",
					},
					"num_results": {
						Type:        "integer",
						Description: "Number of search results to return (default 5)",
						Minimum:     fptr(1),
						Maximum:     fptr(maxNumResults),
						Default:     json.RawMessage("5"),
					},
				},
				Required: []string{"query"},
			},
		},
		Handler: func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				Query      string `json:"query"`
				NumResults int    `json:"num_results"`
			}

			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult("Web search failed: could not read arguments: %v", err), nil
			}

			if args.NumResults == 0 {
				args.NumResults = defaultNumResults
			}

			resp, err := searcher.Search(ctx, &exa.SearchRequest{
				Query:      args.Query,
				Type:       "auto",
				NumResults: args.NumResults,
				Livecrawl:  "always",
				Contents:   exa.Contents{Text: exa.TextContents{MaxCharacters: defaultMaxCharacters}},
			})
			if err != nil {
				log.Warn("Search failed", "error", err)
				return errorResult("Web search failed: %v", err), nil
			}

			if len(resp.Results) == 0 {
				return errorResult("No search results found for %q.", args.Query), nil
			}

			return textResult(formatResults("Web search results for \""+args.Query+"\":", resp.Results)), nil
		},
		Enabled: true,
	}
}

func fptr(f float64) *float64 { return &f }
