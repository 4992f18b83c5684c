package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/starsearch/internal/core/domain"
)

// SearchInput is the input schema for the search_stars tool.
type SearchInput struct {
	SessionID string `json:"session_id" jsonschema:"the browser session identifier of a signed-in user"`
	Query     string `json:"query" jsonschema:"text to find in starred readmes, matched case-insensitively"`
	Order     string `json:"order,omitempty" jsonschema:"result order: name (default) or count"`
}

// SearchOutput is the output schema for the search_stars tool.
type SearchOutput struct {
	Query      string         `json:"query"`
	Order      string         `json:"order"`
	Status     string         `json:"status"`
	Message    string         `json:"message,omitempty"`
	TotalRepos int            `json:"total_repos"`
	Results    []RepoMatchOut `json:"results"`
	Count      int            `json:"count"`
}

// RepoMatchOut represents one matching repository.
type RepoMatchOut struct {
	RepoID     int64     `json:"repo_id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Owner      string    `json:"owner"`
	OwnerURL   string    `json:"owner_url"`
	StarredAt  time.Time `json:"starred_at"`
	MatchCount int       `json:"match_count"`
	Lines      []string  `json:"lines"`
}

// ProgressInput is the input schema for the fetch_progress tool.
type ProgressInput struct {
	SessionID string `json:"session_id" jsonschema:"the browser session identifier of a signed-in user"`
}

// ProgressOutput is the output schema for the fetch_progress tool.
type ProgressOutput struct {
	State        string `json:"state"`
	Status       string `json:"status"`
	FetchedCount int    `json:"fetched_count"`
	TotalCount   int    `json:"total_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_stars",
		Description: "Search the readmes of a signed-in user's starred GitHub repositories",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fetch_progress",
		Description: "Report how far the readme fetch of a session has progressed",
	}, s.handleProgress)
}

// handleSearch handles the search_stars tool invocation.
func (s *Server) handleSearch(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	resp, err := s.ports.Stars.Search(input.SessionID, input.Query, domain.ParseSortOrder(input.Order))
	if err != nil {
		return nil, SearchOutput{}, sessionError(input.SessionID, err)
	}

	output := SearchOutput{
		Query:      resp.Query,
		Order:      resp.Order.String(),
		Status:     string(resp.Status),
		Message:    resp.Message,
		TotalRepos: resp.TotalRepos,
		Results:    make([]RepoMatchOut, len(resp.Hits)),
		Count:      len(resp.Hits),
	}

	for i, hit := range resp.Hits {
		output.Results[i] = RepoMatchOut{
			RepoID:     hit.RepoID,
			Name:       hit.RepoName,
			URL:        hit.RepoURL,
			Owner:      hit.OwnerName,
			OwnerURL:   hit.OwnerURL,
			StarredAt:  hit.StarredAt,
			MatchCount: hit.MatchCount,
			Lines:      hit.HighlightedLines,
		}
	}

	return nil, output, nil
}

// handleProgress handles the fetch_progress tool invocation.
func (s *Server) handleProgress(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ProgressInput,
) (*mcp.CallToolResult, ProgressOutput, error) {
	status, err := s.ports.Stars.PollProgress(input.SessionID)
	if err != nil {
		return nil, ProgressOutput{}, sessionError(input.SessionID, err)
	}

	return nil, ProgressOutput{
		State:        status.State.String(),
		Status:       status.Message(),
		FetchedCount: status.Progress.FetchedCount,
		TotalCount:   status.Progress.TotalCount,
	}, nil
}

func sessionError(id string, err error) error {
	if errors.Is(err, domain.ErrAuthRequired) {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return err
}
