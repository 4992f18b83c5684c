package services

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/starsearch/internal/core/domain"
)

// SearchEngine matches queries against cached readmes.
type SearchEngine struct{}

// NewSearchEngine creates a new search engine.
func NewSearchEngine() *SearchEngine {
	return &SearchEngine{}
}

// Search scans the readme of repo for query.
//
// Matching is case-insensitive and non-overlapping, scanning left to right.
// Each matching line is rendered as HTML: unmatched text is escaped and every
// match is wrapped in highlight markers. Lines without a match are skipped.
// A repo whose readme is not available yet yields a zero result.
func (e *SearchEngine) Search(repo *domain.Repo, query string) domain.SearchResult {
	if query == "" {
		return domain.SearchResult{Repo: repo}
	}
	return scan(repo, compileQuery(query))
}

// SearchAll scans every repo and returns the ranked results with matches.
// The query is compiled once for the whole scan.
func (e *SearchEngine) SearchAll(repos []*domain.Repo, query string, order domain.SortOrder) []domain.SearchResult {
	if query == "" {
		return []domain.SearchResult{}
	}
	matcher := compileQuery(query)
	results := make([]domain.SearchResult, 0, len(repos))
	for _, repo := range repos {
		results = append(results, scan(repo, matcher))
	}
	return Rank(results, order)
}

func scan(repo *domain.Repo, matcher *regexp.Regexp) domain.SearchResult {
	result := domain.SearchResult{Repo: repo}
	lines, ok := repo.Readme()
	if !ok {
		return result
	}

	for _, line := range lines {
		spans := matcher.FindAllStringIndex(line, -1)
		if len(spans) == 0 {
			continue
		}
		result.MatchCount += len(spans)
		result.HighlightedLines = append(result.HighlightedLines, highlight(line, spans))
	}
	return result
}

// Rank drops results without matches and sorts the rest.
// Ties keep their input order.
func Rank(results []domain.SearchResult, order domain.SortOrder) []domain.SearchResult {
	ranked := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if r.MatchCount > 0 {
			ranked = append(ranked, r)
		}
	}

	switch order {
	case domain.SortByCount:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].MatchCount > ranked[j].MatchCount
		})
	default:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Repo.Name < ranked[j].Repo.Name
		})
	}
	return ranked
}

// compileQuery builds a literal, case-insensitive matcher for query.
func compileQuery(query string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

func highlight(line string, spans [][]int) string {
	var b strings.Builder
	last := 0
	for _, span := range spans {
		b.WriteString(html.EscapeString(line[last:span[0]]))
		b.WriteString(domain.HighlightOpen)
		b.WriteString(html.EscapeString(line[span[0]:span[1]]))
		b.WriteString(domain.HighlightClose)
		last = span[1]
	}
	b.WriteString(html.EscapeString(line[last:]))
	return b.String()
}
