package services

import (
	"fmt"
	"sort"
	"sync/atomic"
	"unicode/utf8"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driven"
	"github.com/custodia-labs/starsearch/internal/core/ports/driving"
	"github.com/custodia-labs/starsearch/internal/logger"
)

// Ensure StarService implements the interface.
var _ driving.StarService = (*StarService)(nil)

// StarService ties sessions, the fetch pipeline and the search engine together.
type StarService struct {
	sessions driven.SessionCache
	auth     driven.GitHubAuthenticator
	pipeline *FetchPipeline
	engine   *SearchEngine
	clock    driven.Clock
	policy   domain.PurgePolicy

	minQueryLength atomic.Int64
}

// NewStarService creates a new star service.
func NewStarService(
	sessions driven.SessionCache,
	auth driven.GitHubAuthenticator,
	pipeline *FetchPipeline,
	engine *SearchEngine,
	clock driven.Clock,
	policy domain.PurgePolicy,
	search domain.SearchSettings,
) *StarService {
	s := &StarService{
		sessions: sessions,
		auth:     auth,
		pipeline: pipeline,
		engine:   engine,
		clock:    clock,
		policy:   policy,
	}
	s.SetMinQueryLength(search.MinQueryLength)
	return s
}

// AuthURL returns the GitHub authorisation page URL.
func (s *StarService) AuthURL(state string) string {
	return s.auth.AuthURL(state)
}

// Session returns the session for id and refreshes its activity.
func (s *StarService) Session(sessionID string) (*domain.Session, bool) {
	now := s.clock.Now()
	s.sessions.PurgeIdleSessions(s.policy.SessionTTL, now)

	if sessionID == "" {
		return nil, false
	}
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, false
	}
	session.Touch(now)
	return session, true
}

// LaunchFetch replaces any session stored under sessionID with a fresh one
// and starts its fetch pipeline.
func (s *StarService) LaunchFetch(sessionID, code string) driving.FetchTask {
	session := domain.NewSession(s.clock.Now())
	s.sessions.Put(sessionID, session)
	logger.Debug("Launching fetch for session %s", sessionID)
	return s.pipeline.Launch(session, code)
}

// PollProgress returns the fetch state and counters of a session.
func (s *StarService) PollProgress(sessionID string) (driving.LoadStatus, error) {
	session, ok := s.Session(sessionID)
	if !ok {
		return driving.LoadStatus{}, fmt.Errorf("poll progress: %w", domain.ErrAuthRequired)
	}
	return driving.LoadStatus{
		State:    session.FetchState(),
		Progress: session.Progress(),
	}, nil
}

// Search scans the session's readmes for query and ranks the matches.
// Queries shorter than the minimum length are answered without scanning.
func (s *StarService) Search(sessionID, query string, order domain.SortOrder) (domain.SearchResponse, error) {
	session, ok := s.Session(sessionID)
	if !ok {
		return domain.SearchResponse{}, fmt.Errorf("search: %w", domain.ErrAuthRequired)
	}
	if !order.IsValid() {
		order = domain.SortByName
	}

	repos := session.Repos()
	resp := domain.SearchResponse{
		Query:      query,
		Order:      order,
		Hits:       []domain.SearchHit{},
		TotalRepos: len(repos),
	}

	minLen := s.MinQueryLength()
	switch length := utf8.RuneCountInString(query); {
	case length == 0:
		resp.Status = domain.QueryEmpty
		return resp, nil
	case length < minLen:
		resp.Status = domain.QueryTooShort
		resp.Message = fmt.Sprintf("Please enter at least %d characters.", minLen)
		return resp, nil
	}

	for _, result := range s.engine.SearchAll(repos, query, order) {
		resp.Hits = append(resp.Hits, domain.NewSearchHit(result))
	}
	if len(resp.Hits) == 0 {
		resp.Status = domain.QueryNoResults
		resp.Message = fmt.Sprintf("No results for “%s”.", query)
	} else {
		resp.Status = domain.QueryOK
	}
	logger.Debug("Search %q over %d repos: %d hits", query, len(repos), len(resp.Hits))
	return resp, nil
}

// ListUsers returns the admin view of every cached session, most recently
// active first. Listing does not trigger a purge.
func (s *StarService) ListUsers() []domain.UserSummary {
	sessions := s.sessions.All()
	users := make([]domain.UserSummary, 0, len(sessions))
	for _, session := range sessions {
		users = append(users, session.Summary())
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].LastActivity.After(users[j].LastActivity)
	})
	return users
}

// MinQueryLength returns the current minimum query length.
func (s *StarService) MinQueryLength() int {
	return int(s.minQueryLength.Load())
}

// SetMinQueryLength changes the minimum query length at runtime.
// Values below one are raised to one.
func (s *StarService) SetMinQueryLength(n int) {
	if n < 1 {
		n = 1
	}
	s.minQueryLength.Store(int64(n))
}
