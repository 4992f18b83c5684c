package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driving"
)

type doneTask struct{}

func (doneTask) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (doneTask) Wait(context.Context) error { return nil }

// mockStarService is an in-memory driving.StarService.
type mockStarService struct {
	mu        sync.Mutex
	sessions  map[string]*domain.Session
	launched  map[string]string
	lastQuery string
	lastOrder domain.SortOrder
	response  domain.SearchResponse
	users     []domain.UserSummary
	lookups   int
}

func newMockStarService() *mockStarService {
	return &mockStarService{
		sessions: make(map[string]*domain.Session),
		launched: make(map[string]string),
	}
}

func (m *mockStarService) addSession(id string, state domain.FetchState) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := domain.NewSession(time.Now())
	if state >= domain.FetchStateFetching {
		s.AdvanceFetchState(domain.FetchStateFetching)
	}
	if state == domain.FetchStateFetched {
		s.AdvanceFetchState(domain.FetchStateFetched)
	}
	m.sessions[id] = s
	return s
}

func (m *mockStarService) AuthURL(state string) string {
	return "https://github.com/login/oauth/authorize?client_id=id&state=" + state
}

func (m *mockStarService) Session(id string) (*domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	s, ok := m.sessions[id]
	return s, ok
}

func (m *mockStarService) LaunchFetch(id, code string) driving.FetchTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.launched[id] = code
	m.sessions[id] = domain.NewSession(time.Now())
	return doneTask{}
}

func (m *mockStarService) PollProgress(id string) (driving.LoadStatus, error) {
	s, ok := m.Session(id)
	if !ok {
		return driving.LoadStatus{}, fmt.Errorf("%w: unknown session", domain.ErrAuthRequired)
	}
	return driving.LoadStatus{State: s.FetchState(), Progress: s.Progress()}, nil
}

func (m *mockStarService) Search(id, query string, order domain.SortOrder) (domain.SearchResponse, error) {
	if _, ok := m.Session(id); !ok {
		return domain.SearchResponse{}, fmt.Errorf("%w: unknown session", domain.ErrAuthRequired)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = query
	m.lastOrder = order
	resp := m.response
	resp.Query = query
	resp.Order = order
	return resp, nil
}

func (m *mockStarService) ListUsers() []domain.UserSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users
}

func (m *mockStarService) lookupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups
}

func (m *mockStarService) MinQueryLength() int { return domain.DefaultMinQueryLength }

var _ driving.StarService = (*mockStarService)(nil)
