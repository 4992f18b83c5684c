package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/starsearch/internal/core/domain"
)

// DefaultFileName is the settings file name inside the config directory.
const DefaultFileName = "config.toml"

// document is the on-disk layout. Durations are Go duration strings.
// The env tags name the STARSEARCH_* overrides applied on top of the file.
type document struct {
	Purge  purgeSection  `toml:"purge"`
	Fetch  fetchSection  `toml:"fetch"`
	Search searchSection `toml:"search"`
	GitHub githubSection `toml:"github"`
	Server serverSection `toml:"server"`
}

type purgeSection struct {
	Interval   string `toml:"interval"    env:"PURGE_INTERVAL"`
	SessionTTL string `toml:"session_ttl" env:"SESSION_TTL"`
	RepoTTL    string `toml:"repo_ttl"    env:"REPO_TTL"`
}

type fetchSection struct {
	MaxRepos          int     `toml:"max_repos"           env:"MAX_REPOS"`
	PageSize          int     `toml:"page_size"           env:"PAGE_SIZE"`
	FastPoolSize      int     `toml:"fast_pool_size"      env:"FAST_POOL_SIZE"`
	SlowPoolSize      int     `toml:"slow_pool_size"      env:"SLOW_POOL_SIZE"`
	RequestTimeout    string  `toml:"request_timeout"     env:"REQUEST_TIMEOUT"`
	RequestsPerSecond float64 `toml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
}

type searchSection struct {
	MinQueryLength int `toml:"min_query_length" env:"MIN_QUERY_LENGTH"`
}

type githubSection struct {
	ClientID     string `toml:"client_id"               env:"GITHUB_CLIENT_ID"`
	ClientSecret string `toml:"client_secret,omitempty" env:"GITHUB_CLIENT_SECRET"`
	AuthURL      string `toml:"auth_url,omitempty"      env:"GITHUB_AUTH_URL"`
	TokenURL     string `toml:"token_url,omitempty"     env:"GITHUB_TOKEN_URL"`
	APIURL       string `toml:"api_url,omitempty"       env:"GITHUB_API_URL"`
}

type serverSection struct {
	ListenAddr    string `toml:"listen_addr"              env:"LISTEN_ADDR"`
	MCPAddr       string `toml:"mcp_addr"                 env:"MCP_ADDR"`
	PublicURL     string `toml:"public_url"               env:"PUBLIC_URL"`
	AdminPassword string `toml:"admin_password,omitempty" env:"ADMIN_PASSWORD"`
}

func newDocument(s domain.AppSettings) document {
	return document{
		Purge: purgeSection{
			Interval:   s.Purge.Interval.String(),
			SessionTTL: s.Purge.SessionTTL.String(),
			RepoTTL:    s.Purge.RepoTTL.String(),
		},
		Fetch: fetchSection{
			MaxRepos:          s.Fetch.MaxRepos,
			PageSize:          s.Fetch.PageSize,
			FastPoolSize:      s.Fetch.FastPoolSize,
			SlowPoolSize:      s.Fetch.SlowPoolSize,
			RequestTimeout:    s.Fetch.RequestTimeout.String(),
			RequestsPerSecond: s.Fetch.RequestsPerSecond,
		},
		Search: searchSection{MinQueryLength: s.Search.MinQueryLength},
		GitHub: githubSection{
			ClientID:     s.GitHub.ClientID,
			ClientSecret: s.GitHub.ClientSecret,
			AuthURL:      s.GitHub.AuthURL,
			TokenURL:     s.GitHub.TokenURL,
			APIURL:       s.GitHub.APIURL,
		},
		Server: serverSection{
			ListenAddr:    s.Server.ListenAddr,
			MCPAddr:       s.Server.MCPAddr,
			PublicURL:     s.Server.PublicURL,
			AdminPassword: s.Server.AdminPassword,
		},
	}
}

func (d document) settings() (domain.AppSettings, error) {
	var s domain.AppSettings
	var err error

	durations := []struct {
		key   string
		value string
		dst   *time.Duration
	}{
		{"purge.interval", d.Purge.Interval, &s.Purge.Interval},
		{"purge.session_ttl", d.Purge.SessionTTL, &s.Purge.SessionTTL},
		{"purge.repo_ttl", d.Purge.RepoTTL, &s.Purge.RepoTTL},
		{"fetch.request_timeout", d.Fetch.RequestTimeout, &s.Fetch.RequestTimeout},
	}
	for _, dur := range durations {
		if *dur.dst, err = time.ParseDuration(dur.value); err != nil {
			return domain.AppSettings{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidConfig, dur.key, err)
		}
	}

	s.Fetch.MaxRepos = d.Fetch.MaxRepos
	s.Fetch.PageSize = d.Fetch.PageSize
	s.Fetch.FastPoolSize = d.Fetch.FastPoolSize
	s.Fetch.SlowPoolSize = d.Fetch.SlowPoolSize
	s.Fetch.RequestsPerSecond = d.Fetch.RequestsPerSecond
	s.Search.MinQueryLength = d.Search.MinQueryLength
	s.GitHub = domain.GitHubSettings{
		ClientID:     d.GitHub.ClientID,
		ClientSecret: d.GitHub.ClientSecret,
		AuthURL:      d.GitHub.AuthURL,
		TokenURL:     d.GitHub.TokenURL,
		APIURL:       d.GitHub.APIURL,
	}
	s.Server = domain.ServerSettings{
		ListenAddr:    d.Server.ListenAddr,
		MCPAddr:       d.Server.MCPAddr,
		PublicURL:     d.Server.PublicURL,
		AdminPassword: d.Server.AdminPassword,
	}
	return s, nil
}

// SettingsStore reads and writes the TOML settings file.
type SettingsStore struct {
	filePath string
	environ  map[string]string // nil reads the process environment
}

// NewSettingsStore creates a store for the file at path.
// If path is empty, defaults to ~/.starsearch/config.toml.
func NewSettingsStore(path string) (*SettingsStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".starsearch", DefaultFileName)
	}
	return &SettingsStore{filePath: path}, nil
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// Load returns the defaults overlaid with the file, if present, and then the
// environment. The result is validated.
func (s *SettingsStore) Load() (domain.AppSettings, error) {
	doc, err := s.loadFile()
	if err != nil {
		return domain.AppSettings{}, err
	}
	if err := applyEnv(&doc, s.environ); err != nil {
		return domain.AppSettings{}, err
	}
	settings, err := doc.settings()
	if err != nil {
		return domain.AppSettings{}, err
	}
	if err := settings.Validate(); err != nil {
		return domain.AppSettings{}, err
	}
	return settings, nil
}

func (s *SettingsStore) loadFile() (document, error) {
	doc := newDocument(domain.DefaultAppSettings())

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file yet - defaults apply
			return doc, nil
		}
		return document{}, fmt.Errorf("read settings: %w", err)
	}

	if err := toml.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidConfig, s.filePath, err)
	}
	return doc, nil
}

// Save writes settings to the file, creating the directory if needed.
func (s *SettingsStore) Save(settings domain.AppSettings) error {
	data, err := Marshal(settings)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return err
	}
	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Marshal renders settings in the file format.
func Marshal(settings domain.AppSettings) ([]byte, error) {
	return toml.Marshal(newDocument(settings))
}
