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

const paperSearchDescription = `Search across 100M+ research papers with full text access using Exa AI - performs targeted academic paper searches with deep research content coverage. Returns detailed information about relevant academic papers including titles, authors, publication dates, and full text excerpts. Control the number of results and character counts returned to balance comprehensiveness with conciseness.`

// NewResearchPaperSearch builds the research_paper_search tool.
func NewResearchPaperSearch(log *slog.Logger, searcher Searcher) *registry.Descriptor {
	log = log.With("tool", "research_paper_search")

	return &registry.Descriptor{
		Tool: &mcp.Tool{
			Name:        "research_paper_search",
			Description: paperSearchDescription,
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"query": {
						Type:        "string",
						Description: "Research topic or keyword to search for",
					},
					"num_results": {
						Type:        "integer",
						Description: "Number of research papers to return (default 5)",
						Minimum:     fptr(1),
						Maximum:     fptr(maxNumResults),
						Default:     json.RawMessage("5"),
					},
					"max_characters": {
						Type:        "integer",
						Description: "Maximum number of characters to return for each result's text content (default 3000)",
						Minimum:     fptr(minMaxCharacters),
						Maximum:     fptr(maxMaxCharacters),
						Default:     json.RawMessage("3000"),
					},
				},
				Required: []string{"query"},
			},
		},
		Handler: func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				Query         string `json:"query"`
				NumResults    int    `json:"num_results"`
				MaxCharacters int    `json:"max_characters"`
			}

			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult("Research paper search failed: could not read arguments: %v", err), nil
			}

			if args.NumResults == 0 {
				args.NumResults = defaultNumResults
			}

			if args.MaxCharacters == 0 {
				args.MaxCharacters = defaultMaxCharacters
			}

			resp, err := searcher.Search(ctx, &exa.SearchRequest{
				Query:      args.Query,
				Type:       "auto",
				Category:   "research paper",
				NumResults: args.NumResults,
				Contents:   exa.Contents{Text: exa.TextContents{MaxCharacters: args.MaxCharacters}},
			})
			if err != nil {
				log.Warn("Search failed", "error", err)
				return errorResult("Research paper search failed: %v", err), nil
			}

			if len(resp.Results) == 0 {
				return errorResult("No research papers found for %q.", args.Query), nil
			}

			return textResult(formatResults("Research papers for \""+args.Query+"\":", resp.Results)), nil
		},
		Enabled: true,
	}
}
