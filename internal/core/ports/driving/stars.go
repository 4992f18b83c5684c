package driving

import (
	"context"
	"fmt"

	"github.com/custodia-labs/starsearch/internal/core/domain"
)

// LoadStatus is what a progress poller sees.
type LoadStatus struct {
	State    domain.FetchState
	Progress domain.Progress
}

// Message returns the status line shown while loading.
func (s LoadStatus) Message() string {
	switch {
	case s.State == domain.FetchStateFetched:
		return "Fetched readmes"
	case s.State == domain.FetchStateFetching && s.Progress.TotalCount == 0:
		return "Getting starred repositories..."
	case s.State == domain.FetchStateFetching:
		return fmt.Sprintf("Fetching %d readmes...", s.Progress.TotalCount)
	default:
		return "Connecting to GitHub..."
	}
}

// FetchTask is the handle of one asynchronous fetch pipeline run.
type FetchTask interface {
	// Done is closed once the pipeline reached the Fetched state.
	Done() <-chan struct{}

	// Wait blocks until the pipeline finishes or ctx ends.
	Wait(ctx context.Context) error
}

// StarService exposes starred-readme search to route layers.
type StarService interface {
	// AuthURL returns the GitHub authorisation page URL.
	AuthURL(state string) string

	// Session returns the session for id, refreshing its activity, or false.
	// Every call may trigger the debounced idle purge.
	Session(sessionID string) (*domain.Session, bool)

	// LaunchFetch creates a fresh session for sessionID and starts fetching
	// its starred repositories with the OAuth code. It returns immediately.
	LaunchFetch(sessionID, code string) FetchTask

	// PollProgress returns the fetch state and counters of a session.
	PollProgress(sessionID string) (LoadStatus, error)

	// Search scans the session's readmes for query.
	Search(sessionID, query string, order domain.SortOrder) (domain.SearchResponse, error)

	// ListUsers returns the admin view of every cached session.
	ListUsers() []domain.UserSummary

	// MinQueryLength returns the current minimum query length.
	MinQueryLength() int
}
