package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/starsearch/internal/core/domain"
)

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid session repos URI", "starsearch://sessions/abc-123/repos", "abc-123"},
		{"invalid prefix", "file://sessions/abc-123/repos", ""},
		{"missing repos suffix", "starsearch://sessions/abc-123", ""},
		{"nested path", "starsearch://sessions/a/b/repos", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractSessionID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleUsersResource(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cache returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Stars: &mockStarService{}})
		require.NoError(t, err)

		result, err := server.handleUsersResource(ctx, makeReadResourceRequest("starsearch://users"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists users", func(t *testing.T) {
		stars := &mockStarService{users: []domain.UserSummary{{
			Username:     "octocat",
			LastActivity: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			RepoNames:    []string{"hello-world"},
		}}}
		server, err := NewServer(&Ports{Stars: stars})
		require.NoError(t, err)

		result, err := server.handleUsersResource(ctx, makeReadResourceRequest("starsearch://users"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "octocat")
		assert.Contains(t, result.Contents[0].Text, "hello-world")
		assert.Contains(t, result.Contents[0].Text, "2024-06-01T12:00:00Z")
	})
}

func TestServer_handleSessionReposResource(t *testing.T) {
	ctx := context.Background()

	repo := domain.NewRepo(domain.StarredRepo{
		ID:         42,
		Name:       "go-github",
		OwnerID:    1,
		OwnerName:  "google",
		ForksCount: 3,
		StarsCount: 9,
		StarredAt:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}, time.Now())
	repo.SetReadme([]string{"line"})

	stars := &mockStarService{sessions: map[string]*domain.Session{"s1": fetchedSession(repo)}}
	server, err := NewServer(&Ports{Stars: stars})
	require.NoError(t, err)

	t.Run("returns repos", func(t *testing.T) {
		result, err := server.handleSessionReposResource(ctx, makeReadResourceRequest("starsearch://sessions/s1/repos"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)

		var repos []map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &repos))
		require.Len(t, repos, 1)
		assert.Equal(t, "go-github", repos[0]["name"])
		assert.Equal(t, "https://github.com/google/go-github", repos[0]["url"])
		assert.Equal(t, true, repos[0]["has_readme"])
	})

	t.Run("unknown session returns not found", func(t *testing.T) {
		_, err := server.handleSessionReposResource(ctx, makeReadResourceRequest("starsearch://sessions/zz/repos"))
		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		_, err := server.handleSessionReposResource(ctx, makeReadResourceRequest("starsearch://invalid/uri"))
		require.Error(t, err)
	})
}
