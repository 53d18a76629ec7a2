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

const twitterSearchDescription = `Search Twitter/X.com posts and accounts using Exa AI - performs targeted searches of Twitter (X.com) content including tweets, profiles, and discussions. Returns relevant tweets, profile information, and conversation threads based on your search query. You can search for a topic, find a user's tweets with "from:username", or narrow results to a publication date window.`

// twitterDomains restricts results to X/Twitter content.
var twitterDomains = []string{"x.com", "twitter.com"}

// NewTwitterSearch builds the twitter_search (social-post search) tool.
func NewTwitterSearch(log *slog.Logger, searcher Searcher) *registry.Descriptor {
	log = log.With("tool", "twitter_search")

	return &registry.Descriptor{
		Tool: &mcp.Tool{
			Name:        "twitter_search",
			Description: twitterSearchDescription,
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"query": {
						Type:        "string",
						Description: "Twitter username, hashtag, or search term (e.g., \"@elonmusk\", \"#AI\", or \"from:username\")",
					},
					"num_results": {
						Type:        "integer",
						Description: "Number of Twitter results to return (default 5)",
						Minimum:     fptr(1),
						Maximum:     fptr(maxNumResults),
						Default:     json.RawMessage("5"),
					},
					"start_published_date": {
						Type:        "string",
						Description: "Optional ISO date string (e.g., \"2023-04-01T00:00:00.000Z\") to filter tweets published after this date",
					},
					"end_published_date": {
						Type:        "string",
						Description: "Optional ISO date string (e.g., \"2023-04-30T23:59:59.999Z\") to filter tweets published before this date",
					},
				},
				Required: []string{"query"},
			},
		},
		Handler: func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				Query              string `json:"query"`
				NumResults         int    `json:"num_results"`
				StartPublishedDate string `json:"start_published_date"`
				EndPublishedDate   string `json:"end_published_date"`
			}

			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult("Twitter search failed: could not read arguments: %v", err), nil
			}

			if args.NumResults == 0 {
				args.NumResults = defaultNumResults
			}

			resp, err := searcher.Search(ctx, &exa.SearchRequest{
				Query:              args.Query,
				Type:               "auto",
				NumResults:         args.NumResults,
				IncludeDomains:     twitterDomains,
				StartPublishedDate: args.StartPublishedDate,
				EndPublishedDate:   args.EndPublishedDate,
				Contents:           exa.Contents{Text: exa.TextContents{MaxCharacters: defaultMaxCharacters}},
			})
			if err != nil {
				log.Warn("Search failed", "error", err)
				return errorResult("Twitter search failed: %v", err), nil
			}

			if len(resp.Results) == 0 {
				return errorResult("No Twitter results found for %q.", args.Query), nil
			}

			return textResult(formatResults("Twitter results for \""+args.Query+"\":", resp.Results)), nil
		},
		Enabled: true,
	}
}
