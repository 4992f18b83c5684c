package memory

import (
	"sync"
	"time"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driven"
)

// Ensure RepoCache implements the interface.
var _ driven.RepoCache = (*RepoCache)(nil)

// RepoCache is an in-memory implementation of driven.RepoCache.
type RepoCache struct {
	mu    sync.RWMutex
	repos map[int64]*domain.Repo
}

// NewRepoCache creates a new in-memory repo cache.
func NewRepoCache() *RepoCache {
	return &RepoCache{
		repos: make(map[int64]*domain.Repo),
	}
}

// Lookup retrieves a repo by id.
func (c *RepoCache) Lookup(id int64) (*domain.Repo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	repo, ok := c.repos[id]
	return repo, ok
}

// InsertIfAbsent stores repo unless its id is already cached.
// The first writer wins; later instances are discarded.
func (c *RepoCache) InsertIfAbsent(repo *domain.Repo) *domain.Repo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.repos[repo.ID]; ok {
		return existing
	}
	c.repos[repo.ID] = repo
	return repo
}

// PurgeOlderThan removes repos cached more than ttl before now.
func (c *RepoCache) PurgeOlderThan(ttl time.Duration, now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, repo := range c.repos {
		if now.Sub(repo.CachedAt) > ttl {
			delete(c.repos, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached repos.
func (c *RepoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.repos)
}
