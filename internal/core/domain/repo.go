package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

// GitHubURL is the web root used to build repository and owner links.
const GitHubURL = "https://github.com"

// Repo is the cached representation of one starred repository.
// All metadata is immutable after construction. The readme is written at most
// once and may be read concurrently while it is being set.
type Repo struct {
	ID         int64
	Name       string
	OwnerID    int64
	OwnerName  string
	ForksCount int
	StarsCount int
	StarredAt  time.Time
	CachedAt   time.Time

	readme atomic.Pointer[[]string]
}

// NewRepo creates a repo record stamped with the given cache time.
func NewRepo(entry StarredRepo, cachedAt time.Time) *Repo {
	return &Repo{
		ID:         entry.ID,
		Name:       entry.Name,
		OwnerID:    entry.OwnerID,
		OwnerName:  entry.OwnerName,
		ForksCount: entry.ForksCount,
		StarsCount: entry.StarsCount,
		StarredAt:  entry.StarredAt,
		CachedAt:   cachedAt,
	}
}

// Readme returns the stripped readme lines.
// The second value is false while the readme is not (yet) available.
func (r *Repo) Readme() ([]string, bool) {
	lines := r.readme.Load()
	if lines == nil {
		return nil, false
	}
	return *lines, true
}

// HasReadme reports whether the readme has been stored.
func (r *Repo) HasReadme() bool {
	return r.readme.Load() != nil
}

// SetReadme stores the readme lines. Only the first call has an effect;
// it returns false if a readme was already set.
func (r *Repo) SetReadme(lines []string) bool {
	if lines == nil {
		lines = []string{}
	}
	return r.readme.CompareAndSwap(nil, &lines)
}

// URL returns the repository web page.
func (r *Repo) URL() string {
	return fmt.Sprintf("%s/%s/%s", GitHubURL, r.OwnerName, r.Name)
}

// OwnerURL returns the owner's profile page.
func (r *Repo) OwnerURL() string {
	return fmt.Sprintf("%s/%s", GitHubURL, r.OwnerName)
}

// StarredRepo is one well-formed entry of the starred listing.
type StarredRepo struct {
	ID         int64
	Name       string
	OwnerID    int64
	OwnerName  string
	ForksCount int
	StarsCount int
	StarredAt  time.Time
}

// StarredPage is one page of the starred listing.
// Size counts every entry the remote returned, including malformed ones that
// were dropped from Entries, so callers can tell whether the page was full.
type StarredPage struct {
	Entries []StarredRepo
	Size    int
}
