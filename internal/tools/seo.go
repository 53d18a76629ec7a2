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

const seoDescription = `Generate an SEO-optimized content outline for a topic using Exa AI - searches the web for the topic, analyzes the top results, and produces a structured markdown outline with suggested sections, frequently asked questions, and target keywords.`

// NewSEOOutline builds the seo_outline_generator tool.
func NewSEOOutline(log *slog.Logger, searcher Searcher) *registry.Descriptor {
	log = log.With("tool", "seo_outline_generator")

	return &registry.Descriptor{
		Tool: &mcp.Tool{
			Name:        "seo_outline_generator",
			Description: seoDescription,
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"topic": {
						Type:        "string",
						Description: "Topic to generate an SEO outline for",
					},
					"keywords": {
						Type:        "string",
						Description: "Comma-separated target keywords to weave into the outline (optional)",
						Default:     json.RawMessage(`""`),
					},
				},
				Required: []string{"topic"},
			},
		},
		Handler: func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				Topic    string `json:"topic"`
				Keywords string `json:"keywords"`
			}

			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult("SEO outline generation failed: could not read arguments: %v", err), nil
			}

			resp, err := searcher.Search(ctx, &exa.SearchRequest{
				Query:      args.Topic,
				Type:       "auto",
				NumResults: defaultNumResults,
				Livecrawl:  "always",
				Contents:   exa.Contents{Text: exa.TextContents{MaxCharacters: defaultMaxCharacters}},
			})
			if err != nil {
				log.Warn("Search failed", "error", err)
				return errorResult("SEO outline generation failed: %v", err), nil
			}

			if len(resp.Results) == 0 {
				return errorResult("Unable to generate an SEO outline. No search results found for %q.", args.Topic), nil
			}

			return textResult(buildOutline(args.Topic, splitKeywords(args.Keywords), resp.Results)), nil
		},
		Enabled: true,
	}
}
