package domain

import (
	"sync"
	"sync/atomic"
	"time"
)

// FetchState is the lifecycle of a session's starred-repository fetch.
// Transitions only move forward: NotFetched, Fetching, Fetched.
type FetchState int32

// Available fetch states.
const (
	FetchStateNotFetched FetchState = iota
	FetchStateFetching
	FetchStateFetched
)

// String returns the string representation.
func (s FetchState) String() string {
	switch s {
	case FetchStateNotFetched:
		return "not_fetched"
	case FetchStateFetching:
		return "fetching"
	case FetchStateFetched:
		return "fetched"
	default:
		return unknownDescription
	}
}

// Progress counts readmes available for a session against the listing size.
type Progress struct {
	FetchedCount int
	TotalCount   int
}

// Session is the runtime record of one authenticated user login.
//
// Each field has its own synchronisation so that pollers reading progress
// never wait on a search reading repos. Only one fetch pipeline writes a
// session; any number of request goroutines read it.
type Session struct {
	tokenMu     sync.RWMutex
	accessToken string

	usernameMu sync.RWMutex
	username   string

	lastActivity atomic.Pointer[time.Time]

	reposMu sync.RWMutex
	repos   []*Repo

	fetchState atomic.Int32

	progressMu sync.RWMutex
	progress   Progress
}

// NewSession creates an unauthenticated session last active at now.
func NewSession(now time.Time) *Session {
	s := &Session{}
	s.Touch(now)
	return s
}

// AccessToken returns the OAuth token; empty means unauthenticated.
func (s *Session) AccessToken() string {
	s.tokenMu.RLock()
	defer s.tokenMu.RUnlock()
	return s.accessToken
}

// SetAccessToken stores the OAuth token.
func (s *Session) SetAccessToken(token string) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()
	s.accessToken = token
}

// Username returns the GitHub login.
func (s *Session) Username() string {
	s.usernameMu.RLock()
	defer s.usernameMu.RUnlock()
	return s.username
}

// SetUsername stores the GitHub login.
func (s *Session) SetUsername(name string) {
	s.usernameMu.Lock()
	defer s.usernameMu.Unlock()
	s.username = name
}

// LastActivity returns the time of the most recent authenticated request.
func (s *Session) LastActivity() time.Time {
	t := s.lastActivity.Load()
	if t == nil {
		return time.Time{}
	}
	return *t
}

// Touch refreshes the activity timestamp.
func (s *Session) Touch(now time.Time) {
	s.lastActivity.Store(&now)
}

// IdleFor returns how long the session has been inactive at now.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActivity())
}

// Repos returns the session's repositories. Empty until the fetch completes.
func (s *Session) Repos() []*Repo {
	s.reposMu.RLock()
	defer s.reposMu.RUnlock()
	return s.repos
}

// SetRepos stores the session's repositories.
func (s *Session) SetRepos(repos []*Repo) {
	s.reposMu.Lock()
	defer s.reposMu.Unlock()
	s.repos = repos
}

// FetchState returns the current fetch state.
func (s *Session) FetchState() FetchState {
	return FetchState(s.fetchState.Load())
}

// AdvanceFetchState moves the state forward to next.
// It returns false and leaves the state alone if next would not be a forward move.
func (s *Session) AdvanceFetchState(next FetchState) bool {
	for {
		cur := s.fetchState.Load()
		if int32(next) <= cur {
			return false
		}
		if s.fetchState.CompareAndSwap(cur, int32(next)) {
			return true
		}
	}
}

// Progress returns a consistent snapshot of the fetch counters.
func (s *Session) Progress() Progress {
	s.progressMu.RLock()
	defer s.progressMu.RUnlock()
	return s.progress
}

// StartProgress sets the listing size and the count already available.
// Counters never move backwards: lower values than the current ones are ignored.
func (s *Session) StartProgress(fetched, total int) {
	s.progressMu.Lock()
	defer s.progressMu.Unlock()
	if total > s.progress.TotalCount {
		s.progress.TotalCount = total
	}
	if fetched > s.progress.TotalCount {
		fetched = s.progress.TotalCount
	}
	if fetched > s.progress.FetchedCount {
		s.progress.FetchedCount = fetched
	}
}

// IncrementFetched counts one more available readme, capped at the total.
func (s *Session) IncrementFetched() Progress {
	s.progressMu.Lock()
	defer s.progressMu.Unlock()
	if s.progress.FetchedCount < s.progress.TotalCount {
		s.progress.FetchedCount++
	}
	return s.progress
}

// UserSummary is the admin view of one cached session.
type UserSummary struct {
	Username     string
	LastActivity time.Time
	RepoNames    []string
}

// Summary builds the admin view of the session.
func (s *Session) Summary() UserSummary {
	repos := s.Repos()
	names := make([]string, len(repos))
	for i, r := range repos {
		names[i] = r.Name
	}
	return UserSummary{
		Username:     s.Username(),
		LastActivity: s.LastActivity(),
		RepoNames:    names,
	}
}
