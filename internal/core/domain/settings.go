package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// Default settings, matching the behaviour the service has always shipped with.
const (
	DefaultPurgeInterval  = time.Hour
	DefaultSessionTTL     = 24 * time.Hour
	DefaultRepoTTL        = 24 * time.Hour
	DefaultMinQueryLength = 3
	DefaultMaxRepos       = 1000
	DefaultFastPoolSize   = 10
	DefaultSlowPoolSize   = 50
	DefaultPageSize       = 100
	DefaultRequestTimeout = 30 * time.Second
	DefaultRequestsPerSec = 20.0
	DefaultListenAddr     = ":8080"
	DefaultPublicURL      = "http://localhost:8080"
)

// maxListingPageSize is the largest page the starred listing accepts.
const maxListingPageSize = 100

// PurgePolicy controls how idle sessions and repos are evicted.
type PurgePolicy struct {
	// Interval is the minimum time between two sweeps.
	Interval time.Duration

	// SessionTTL is how long a session may stay idle.
	SessionTTL time.Duration

	// RepoTTL is how long a repo stays cached after it was first fetched.
	RepoTTL time.Duration
}

// FetchSettings bounds the fetch pipeline.
type FetchSettings struct {
	// MaxRepos caps the starred listing per user.
	MaxRepos int

	// PageSize is the listing page size.
	PageSize int

	// FastPoolSize bounds concurrent metadata calls (token, profile, listing).
	FastPoolSize int

	// SlowPoolSize bounds concurrent readme downloads.
	SlowPoolSize int

	// RequestTimeout bounds every outbound call.
	RequestTimeout time.Duration

	// RequestsPerSecond paces calls made with one access token.
	RequestsPerSecond float64
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// MinQueryLength is the shortest query that triggers a scan.
	MinQueryLength int
}

// GitHubSettings holds the OAuth application credentials.
type GitHubSettings struct {
	ClientID     string
	ClientSecret string

	// AuthURL, TokenURL and APIURL override the public GitHub endpoints.
	AuthURL  string
	TokenURL string
	APIURL   string
}

// ServerSettings holds the listening surfaces.
type ServerSettings struct {
	// ListenAddr is the web listen address.
	ListenAddr string

	// MCPAddr is the MCP streamable HTTP listen address; empty disables it.
	MCPAddr string

	// PublicURL is the externally visible base URL used for the OAuth redirect.
	PublicURL string

	// AdminPassword guards the admin listing; empty disables it.
	AdminPassword string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Purge  PurgePolicy
	Fetch  FetchSettings
	Search SearchSettings
	GitHub GitHubSettings
	Server ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// GitHub credentials are left empty and must be configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Purge: PurgePolicy{
			Interval:   DefaultPurgeInterval,
			SessionTTL: DefaultSessionTTL,
			RepoTTL:    DefaultRepoTTL,
		},
		Fetch: FetchSettings{
			MaxRepos:          DefaultMaxRepos,
			PageSize:          DefaultPageSize,
			FastPoolSize:      DefaultFastPoolSize,
			SlowPoolSize:      DefaultSlowPoolSize,
			RequestTimeout:    DefaultRequestTimeout,
			RequestsPerSecond: DefaultRequestsPerSec,
		},
		Search: SearchSettings{
			MinQueryLength: DefaultMinQueryLength,
		},
		Server: ServerSettings{
			ListenAddr: DefaultListenAddr,
			PublicURL:  DefaultPublicURL,
		},
	}
}

// Validate checks that every bound is usable.
func (s AppSettings) Validate() error {
	switch {
	case s.Purge.Interval <= 0:
		return fmt.Errorf("%w: purge interval must be positive", ErrInvalidConfig)
	case s.Purge.SessionTTL <= 0:
		return fmt.Errorf("%w: session ttl must be positive", ErrInvalidConfig)
	case s.Purge.RepoTTL <= 0:
		return fmt.Errorf("%w: repo ttl must be positive", ErrInvalidConfig)
	case s.Fetch.MaxRepos <= 0:
		return fmt.Errorf("%w: max repos must be positive", ErrInvalidConfig)
	case s.Fetch.PageSize <= 0 || s.Fetch.PageSize > maxListingPageSize:
		return fmt.Errorf("%w: page size must be between 1 and %d", ErrInvalidConfig, maxListingPageSize)
	case s.Fetch.FastPoolSize <= 0 || s.Fetch.SlowPoolSize <= 0:
		return fmt.Errorf("%w: pool sizes must be positive", ErrInvalidConfig)
	case s.Fetch.RequestTimeout <= 0:
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	case s.Fetch.RequestsPerSecond <= 0:
		return fmt.Errorf("%w: requests per second must be positive", ErrInvalidConfig)
	case s.Search.MinQueryLength < 1:
		return fmt.Errorf("%w: min query length must be at least 1", ErrInvalidConfig)
	}
	return nil
}
