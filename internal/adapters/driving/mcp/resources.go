package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for starsearch resources.
	uriScheme = "starsearch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "users",
		Name:        "users",
		Description: "Every cached user with their last activity and starred repositories",
		MIMEType:    "application/json",
	}, s.handleUsersResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}/repos",
		Name:        "session-repos",
		Description: "Starred repositories cached for one session",
		MIMEType:    "application/json",
	}, s.handleSessionReposResource)
}

// handleUsersResource returns the admin listing of cached users.
func (s *Server) handleUsersResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type userInfo struct {
		Username     string    `json:"username"`
		LastActivity time.Time `json:"last_activity"`
		Repos        []string  `json:"repos"`
	}

	summaries := s.ports.Stars.ListUsers()
	infos := make([]userInfo, len(summaries))
	for i, u := range summaries {
		infos[i] = userInfo{
			Username:     u.Username,
			LastActivity: u.LastActivity,
			Repos:        u.RepoNames,
		}
	}

	return jsonResult(req.Params.URI, infos, "users")
}

// handleSessionReposResource returns the repositories of one session.
func (s *Server) handleSessionReposResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract sessionId from URI: starsearch://sessions/{sessionId}/repos
	sessionID := extractSessionID(req.Params.URI)
	if sessionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	session, ok := s.ports.Stars.Session(sessionID)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type repoInfo struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Owner     string    `json:"owner"`
		URL       string    `json:"url"`
		Stars     int       `json:"stars"`
		Forks     int       `json:"forks"`
		StarredAt time.Time `json:"starred_at"`
		HasReadme bool      `json:"has_readme"`
	}

	repos := session.Repos()
	infos := make([]repoInfo, len(repos))
	for i, r := range repos {
		infos[i] = repoInfo{
			ID:        r.ID,
			Name:      r.Name,
			Owner:     r.OwnerName,
			URL:       r.URL(),
			Stars:     r.StarsCount,
			Forks:     r.ForksCount,
			StarredAt: r.StarredAt,
			HasReadme: r.HasReadme(),
		}
	}

	return jsonResult(req.Params.URI, infos, "repos")
}

func jsonResult(uri string, v any, what string) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", what, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSessionID extracts the session ID from a URI like starsearch://sessions/{sessionId}/repos.
func extractSessionID(uri string) string {
	const prefix = uriScheme + "sessions/"
	const suffix = "/repos"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(uri, suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
