package driven

import (
	"time"

	"github.com/custodia-labs/starsearch/internal/core/domain"
)

// RepoCache is the process-wide store of repositories keyed by id.
// Lookups never block on each other; inserts and purges are exclusive.
type RepoCache interface {
	// Lookup returns the cached repo for id, or false if absent.
	Lookup(id int64) (*domain.Repo, bool)

	// InsertIfAbsent stores repo unless another instance with the same id is
	// already cached. It returns the instance that is cached afterwards.
	InsertIfAbsent(repo *domain.Repo) *domain.Repo

	// PurgeOlderThan removes every repo cached longer than ttl before now
	// and returns how many were removed.
	PurgeOlderThan(ttl time.Duration, now time.Time) int

	// Len returns the number of cached repos.
	Len() int
}

// SessionCache maps session identifiers to sessions.
type SessionCache interface {
	// Get returns the session for id, or false if absent.
	Get(id string) (*domain.Session, bool)

	// Put stores session under id, replacing any previous one.
	Put(id string, session *domain.Session)

	// PurgeIdleSessions removes sessions idle longer than ttl, at most once per
	// purge interval, and then purges the repo cache. It returns true only if
	// this call performed the sweep.
	PurgeIdleSessions(ttl time.Duration, now time.Time) bool

	// All returns a snapshot of every cached session.
	All() []*domain.Session
}
