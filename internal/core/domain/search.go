package domain

import "time"

// HighlightOpen and HighlightClose wrap every matched span in highlighted lines.
const (
	HighlightOpen  = "<mark>"
	HighlightClose = "</mark>"
)

// SortOrder selects how ranked results are ordered.
type SortOrder string

// Available sort orders.
const (
	// SortByName orders by repository name, case-sensitive.
	SortByName SortOrder = "name"

	// SortByCount orders by match count, highest first.
	SortByCount SortOrder = "count"
)

// ParseSortOrder returns the sort order for s, defaulting to SortByName.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortByCount:
		return SortByCount
	default:
		return SortByName
	}
}

// IsValid returns true if the sort order is recognised.
func (o SortOrder) IsValid() bool {
	return o == SortByName || o == SortByCount
}

// String returns the string representation.
func (o SortOrder) String() string {
	return string(o)
}

// SearchResult is the match summary of one repository for one query.
// It is produced per query and never cached.
type SearchResult struct {
	// Repo is the matched repository.
	Repo *Repo

	// MatchCount is the number of occurrences across all readme lines.
	MatchCount int

	// HighlightedLines holds one HTML string per matching line.
	HighlightedLines []string
}

// QueryStatus describes why a search returned what it returned.
type QueryStatus string

// Available query statuses.
const (
	// QueryEmpty means no query was given.
	QueryEmpty QueryStatus = "empty"

	// QueryTooShort means the query was below the minimum length; no scan ran.
	QueryTooShort QueryStatus = "too_short"

	// QueryNoResults means the scan ran and nothing matched.
	QueryNoResults QueryStatus = "no_results"

	// QueryOK means at least one repository matched.
	QueryOK QueryStatus = "ok"
)

// SearchHit is the presentation record of one ranked result.
type SearchHit struct {
	RepoID           int64     `json:"repoId"`
	RepoName         string    `json:"repoName"`
	RepoURL          string    `json:"repoUrl"`
	OwnerID          int64     `json:"ownerId"`
	OwnerName        string    `json:"ownerName"`
	OwnerURL         string    `json:"ownerUrl"`
	StarredAt        time.Time `json:"starredAt"`
	MatchCount       int       `json:"count"`
	HighlightedLines []string  `json:"lines"`
}

// NewSearchHit flattens a search result for presentation.
func NewSearchHit(r SearchResult) SearchHit {
	return SearchHit{
		RepoID:           r.Repo.ID,
		RepoName:         r.Repo.Name,
		RepoURL:          r.Repo.URL(),
		OwnerID:          r.Repo.OwnerID,
		OwnerName:        r.Repo.OwnerName,
		OwnerURL:         r.Repo.OwnerURL(),
		StarredAt:        r.Repo.StarredAt,
		MatchCount:       r.MatchCount,
		HighlightedLines: r.HighlightedLines,
	}
}

// SearchResponse is the outcome of a session search.
type SearchResponse struct {
	// Query is the query as received.
	Query string

	// Order is the order the hits are sorted by.
	Order SortOrder

	// Status tells empty, too-short, no-result and successful searches apart.
	Status QueryStatus

	// Message is the user-facing status line; empty for empty and successful searches.
	Message string

	// Hits are the ranked results; empty unless Status is QueryOK.
	Hits []SearchHit

	// TotalRepos is the number of repositories the session searched over.
	TotalRepos int
}
