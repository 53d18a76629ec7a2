package exa

// SearchRequest is the JSON body for POST /search.
//
// The field set mirrors the Exa search API; omitempty keeps optional filters
// off the wire when unused so the API applies its own defaults.
type SearchRequest struct {
	Query              string   `json:"query"`
	Type               string   `json:"type,omitempty"`
	Category           string   `json:"category,omitempty"`
	NumResults         int      `json:"numResults"`
	IncludeDomains     []string `json:"includeDomains,omitempty"`
	ExcludeDomains     []string `json:"excludeDomains,omitempty"`
	StartPublishedDate string   `json:"startPublishedDate,omitempty"`
	EndPublishedDate   string   `json:"endPublishedDate,omitempty"`
	Livecrawl          string   `json:"livecrawl,omitempty"`
	Contents           Contents `json:"contents"`
}

// Contents selects which content fields the API should return per result.
type Contents struct {
	Text TextContents `json:"text"`
}

// TextContents bounds the amount of page text returned per result.
type TextContents struct {
	MaxCharacters int `json:"maxCharacters"`
}

// SearchResult is a single search hit.
type SearchResult struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	PublishedDate string  `json:"publishedDate"`
	Author        string  `json:"author"`
	Text          string  `json:"text"`
	Score         float64 `json:"score"`
}

// SearchResponse is the JSON body of a successful search.
type SearchResponse struct {
	RequestID string         `json:"requestId"`
	Results   []SearchResult `json:"results"`
}
