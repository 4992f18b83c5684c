package mcp

import (
	"fmt"
	"time"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driving"
)

// mockStarService is a mock implementation of driving.StarService.
type mockStarService struct {
	sessions  map[string]*domain.Session
	response  domain.SearchResponse
	users     []domain.UserSummary
	lastOrder domain.SortOrder
}

func (m *mockStarService) AuthURL(state string) string { return "https://github.com/login?state=" + state }

func (m *mockStarService) Session(id string) (*domain.Session, bool) {
	s, ok := m.sessions[id]
	return s, ok
}

func (m *mockStarService) LaunchFetch(string, string) driving.FetchTask { return nil }

func (m *mockStarService) PollProgress(id string) (driving.LoadStatus, error) {
	s, ok := m.sessions[id]
	if !ok {
		return driving.LoadStatus{}, fmt.Errorf("%w: %s", domain.ErrAuthRequired, id)
	}
	return driving.LoadStatus{State: s.FetchState(), Progress: s.Progress()}, nil
}

func (m *mockStarService) Search(id, query string, order domain.SortOrder) (domain.SearchResponse, error) {
	if _, ok := m.sessions[id]; !ok {
		return domain.SearchResponse{}, fmt.Errorf("%w: %s", domain.ErrAuthRequired, id)
	}
	m.lastOrder = order
	resp := m.response
	resp.Query = query
	resp.Order = order
	return resp, nil
}

func (m *mockStarService) ListUsers() []domain.UserSummary { return m.users }

func (m *mockStarService) MinQueryLength() int { return domain.DefaultMinQueryLength }

var _ driving.StarService = (*mockStarService)(nil)


func fetchedSession(repos ...*domain.Repo) *domain.Session {
	s := domain.NewSession(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.SetRepos(repos)
	s.AdvanceFetchState(domain.FetchStateFetched)
	return s
}
