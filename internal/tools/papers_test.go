package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exa-labs/exa-mcp-server-go/internal/exa"
	"github.com/exa-labs/exa-mcp-server-go/internal/logging"
)

func TestResearchPaperSearchSuccess(t *testing.T) {
	searcher := &fakeSearcher{resp: sampleResults()}
	desc := NewResearchPaperSearch(logging.Nop(), searcher)

	require.Equal(t, "research_paper_search", desc.Tool.Name)

	result := callTool(t, desc, `{"query": "transformer models", "num_results": 2, "max_characters": 500}`)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), `Research papers for "transformer models":`)

	require.NotNil(t, searcher.lastReq)
	assert.Equal(t, "research paper", searcher.lastReq.Category)
	assert.Equal(t, 2, searcher.lastReq.NumResults)
	assert.Equal(t, 500, searcher.lastReq.Contents.Text.MaxCharacters)
	assert.Empty(t, searcher.lastReq.Livecrawl)
}

func TestResearchPaperSearchDefaults(t *testing.T) {
	searcher := &fakeSearcher{resp: sampleResults()}
	desc := NewResearchPaperSearch(logging.Nop(), searcher)

	callTool(t, desc, `{"query": "protein folding"}`)

	require.NotNil(t, searcher.lastReq)
	assert.Equal(t, defaultNumResults, searcher.lastReq.NumResults)
	assert.Equal(t, defaultMaxCharacters, searcher.lastReq.Contents.Text.MaxCharacters)
}

func TestResearchPaperSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection refused")}
	desc := NewResearchPaperSearch(logging.Nop(), searcher)

	result := callTool(t, desc, `{"query": "protein folding"}`)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Research paper search failed:")
}

func TestResearchPaperSearchNoResults(t *testing.T) {
	searcher := &fakeSearcher{resp: &exa.SearchResponse{}}
	desc := NewResearchPaperSearch(logging.Nop(), searcher)

	result := callTool(t, desc, `{"query": "nonexistent field"}`)
	require.True(t, result.IsError)
	assert.Equal(t, `No research papers found for "nonexistent field".`, resultText(t, result))
}
