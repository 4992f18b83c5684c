package memory

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driven"
	"github.com/custodia-labs/starsearch/internal/logger"
)

// Ensure SessionCache implements the interface.
var _ driven.SessionCache = (*SessionCache)(nil)

// SessionCache is an in-memory implementation of driven.SessionCache.
// A completed session sweep also purges the repo cache, so repo eviction
// runs on the same cadence as session eviction.
type SessionCache struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session

	repos         driven.RepoCache
	purgeInterval time.Duration
	repoTTL       time.Duration
	lastSweep     atomic.Int64
}

// NewSessionCache creates a session cache whose first sweep is due one purge
// interval after start.
func NewSessionCache(repos driven.RepoCache, policy domain.PurgePolicy, start time.Time) *SessionCache {
	c := &SessionCache{
		sessions:      make(map[string]*domain.Session),
		repos:         repos,
		purgeInterval: policy.Interval,
		repoTTL:       policy.RepoTTL,
	}
	c.lastSweep.Store(start.UnixNano())
	return c
}

// Get retrieves a session by id.
func (c *SessionCache) Get(id string) (*domain.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	session, ok := c.sessions[id]
	return session, ok
}

// Put stores session under id.
func (c *SessionCache) Put(id string, session *domain.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[id] = session
}

// PurgeIdleSessions removes sessions idle longer than ttl.
//
// Many requests can notice at once that the interval elapsed. Each re-checks
// under the write lock and only the first one to advance the sweep timestamp
// sweeps; the rest return false.
func (c *SessionCache) PurgeIdleSessions(ttl time.Duration, now time.Time) bool {
	if !c.sweepDue(now) {
		return false
	}

	c.mu.Lock()
	if !c.sweepDue(now) {
		c.mu.Unlock()
		return false
	}
	c.lastSweep.Store(now.UnixNano())

	removed := 0
	for id, session := range c.sessions {
		if session.IdleFor(now) > ttl {
			delete(c.sessions, id)
			removed++
		}
	}
	c.mu.Unlock()

	purgedRepos := 0
	if c.repos != nil {
		purgedRepos = c.repos.PurgeOlderThan(c.repoTTL, now)
	}

	logger.Debug("Purge sweep: removed %d sessions, %d repos", removed, purgedRepos)
	return true
}

// All returns a snapshot of every cached session.
func (c *SessionCache) All() []*domain.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*domain.Session, 0, len(c.sessions))
	for _, session := range c.sessions {
		result = append(result, session)
	}
	return result
}

// Len returns the number of cached sessions.
func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

func (c *SessionCache) sweepDue(now time.Time) bool {
	return now.Sub(time.Unix(0, c.lastSweep.Load())) > c.purgeInterval
}
