package tools

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/exa-labs/exa-mcp-server-go/internal/exa"
)

// Text analysis knobs for the outline generator. The analysis is a
// deterministic transform: same results in, same outline out.
const (
	maxOutlineSections  = 5
	maxOutlineQuestions = 5
	maxOutlineKeywords  = 10
	minKeywordLength    = 4
	maxQuestionLength   = 200
)

// stopWords are excluded from keyword frequency ranking.
var stopWords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true, "been": true,
	"before": true, "being": true, "best": true, "between": true, "both": true,
	"could": true, "does": true, "each": true, "from": true, "have": true,
	"here": true, "http": true, "https": true, "into": true, "just": true,
	"like": true, "made": true, "make": true, "many": true, "more": true,
	"most": true, "much": true, "only": true, "other": true, "over": true,
	"same": true, "should": true, "some": true, "such": true, "than": true,
	"that": true, "their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "those": true, "through": true,
	"very": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "will": true, "with": true, "would": true,
	"your": true,
}

type wordCount struct {
	word  string
	count int
}

// splitKeywords parses a comma-separated keyword string into a deduplicated,
// lowercased list. An empty input yields nil.
func splitKeywords(s string) []string {
	seen := make(map[string]bool)

	var keywords []string

	for _, part := range strings.Split(s, ",") {
		kw := strings.ToLower(strings.TrimSpace(part))
		if kw == "" || seen[kw] {
			continue
		}

		seen[kw] = true
		keywords = append(keywords, kw)
	}

	return keywords
}

// tokenize lowercases text and splits it on non-alphanumeric runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// rankKeywords returns up to n target keywords: the caller's seed keywords
// first, in the order given, then the most frequent words discovered in the
// texts. Frequency ties break alphabetically so the ranking is stable.
func rankKeywords(texts []string, seed []string, n int) []wordCount {
	counts := make(map[string]int)

	for _, text := range texts {
		for _, word := range tokenize(text) {
			if len(word) < minKeywordLength || stopWords[word] {
				continue
			}

			counts[word]++
		}
	}

	ranked := make([]wordCount, 0, n)
	seeded := make(map[string]bool, len(seed))

	for _, kw := range seed {
		if len(ranked) >= n {
			break
		}

		count := counts[kw]

		// Multi-word keywords are counted as substring occurrences since
		// tokenization splits them apart.
		if strings.Contains(kw, " ") {
			for _, text := range texts {
				count += strings.Count(strings.ToLower(text), kw)
			}
		}

		seeded[kw] = true
		ranked = append(ranked, wordCount{word: kw, count: count})
	}

	discovered := make([]wordCount, 0, len(counts))

	for word, count := range counts {
		if !seeded[word] {
			discovered = append(discovered, wordCount{word: word, count: count})
		}
	}

	sort.Slice(discovered, func(i, j int) bool {
		if discovered[i].count != discovered[j].count {
			return discovered[i].count > discovered[j].count
		}

		return discovered[i].word < discovered[j].word
	})

	for _, wc := range discovered {
		if len(ranked) >= n {
			break
		}

		ranked = append(ranked, wc)
	}

	return ranked
}

// extractQuestions pulls question sentences out of the result texts.
func extractQuestions(texts []string, limit int) []string {
	seen := make(map[string]bool)

	var questions []string

	for _, text := range texts {
		for _, sentence := range strings.FieldsFunc(text, func(r rune) bool {
			return r == '.' || r == '!' || r == '\n'
		}) {
			idx := strings.IndexRune(sentence, '?')
			if idx < 0 {
				continue
			}

			q := strings.TrimSpace(sentence[:idx+1])
			if len(q) < 10 || len(q) > maxQuestionLength {
				continue
			}

			key := strings.ToLower(q)
			if seen[key] {
				continue
			}

			seen[key] = true
			questions = append(questions, q)

			if len(questions) >= limit {
				return questions
			}
		}
	}

	return questions
}

// sectionHeadings derives section headings from the result titles.
func sectionHeadings(results []exa.SearchResult, limit int) []string {
	seen := make(map[string]bool)

	var headings []string

	for _, r := range results {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}

		// Strip trailing site names like " - Example.com" or " | Example".
		for _, sep := range []string{" | ", " - ", " — "} {
			if idx := strings.Index(title, sep); idx > 0 {
				title = strings.TrimSpace(title[:idx])
			}
		}

		key := strings.ToLower(title)
		if seen[key] {
			continue
		}

		seen[key] = true
		headings = append(headings, title)

		if len(headings) >= limit {
			break
		}
	}

	return headings
}

// buildOutline renders the full markdown outline for topic from the search
// results. Callers guarantee results is non-empty.
func buildOutline(topic string, keywords []string, results []exa.SearchResult) string {
	texts := make([]string, 0, len(results)*2)
	for _, r := range results {
		texts = append(texts, r.Title, r.Text)
	}

	ranked := rankKeywords(texts, keywords, maxOutlineKeywords)
	questions := extractQuestions(texts, maxOutlineQuestions)
	headings := sectionHeadings(results, maxOutlineSections)

	var b strings.Builder

	fmt.Fprintf(&b, "# SEO Content Outline: %s\n\n", topic)

	fmt.Fprintf(&b, "## Suggested Title\n%s: The Complete Guide\n\n", titleCase(topic))

	b.WriteString("## Introduction\n")
	fmt.Fprintf(&b, "- What %q means and why it matters\n", topic)
	fmt.Fprintf(&b, "- Overview drawn from the top %d search results\n\n", len(results))

	b.WriteString("## Main Sections\n")

	for _, h := range headings {
		fmt.Fprintf(&b, "### %s\n", h)
	}

	b.WriteString("\n")

	if len(questions) > 0 {
		b.WriteString("## Frequently Asked Questions\n")

		for _, q := range questions {
			fmt.Fprintf(&b, "- %s\n", q)
		}

		b.WriteString("\n")
	}

	b.WriteString("## Target Keywords\n")

	for _, wc := range ranked {
		if wc.count > 0 {
			fmt.Fprintf(&b, "- %s (%d mentions)\n", wc.word, wc.count)
		} else {
			fmt.Fprintf(&b, "- %s\n", wc.word)
		}
	}

	b.WriteString("\n## Sources\n")

	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, orUntitled(r.Title), r.URL)
	}

	return b.String()
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}

	return strings.Join(words, " ")
}
