package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driven"
)

var errRemote = errors.New("remote failure")

// mockAuthenticator implements driven.GitHubAuthenticator for testing.
type mockAuthenticator struct {
	token string
	err   error
	codes []string
	mu    sync.Mutex
}

func (m *mockAuthenticator) AuthURL(state string) string {
	return "https://github.com/login/oauth/authorize?state=" + state
}

func (m *mockAuthenticator) ExchangeCode(_ context.Context, code string) (string, error) {
	m.mu.Lock()
	m.codes = append(m.codes, code)
	m.mu.Unlock()
	return m.token, m.err
}

// mockClient implements driven.GitHubClient for testing.
type mockClient struct {
	login    string
	loginErr error

	// pages[i] is page i+1; a page past the end is empty.
	pages   [][]domain.StarredRepo
	rawSize map[int]int
	pageErr map[int]error
	perPage []int

	readmes   map[string]string
	readmeErr map[string]error
	downloads map[string]int

	// gate, when set, holds every readme download until closed.
	gate chan struct{}

	mu sync.Mutex
}

func newMockClient(login string) *mockClient {
	return &mockClient{
		login:     login,
		rawSize:   make(map[int]int),
		pageErr:   make(map[int]error),
		readmes:   make(map[string]string),
		readmeErr: make(map[string]error),
		downloads: make(map[string]int),
	}
}

func (m *mockClient) Login(context.Context) (string, error) {
	return m.login, m.loginErr
}

func (m *mockClient) StarredPage(_ context.Context, page, perPage int) (domain.StarredPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perPage = append(m.perPage, perPage)
	if err := m.pageErr[page]; err != nil {
		return domain.StarredPage{}, err
	}
	if page > len(m.pages) {
		return domain.StarredPage{}, nil
	}
	entries := m.pages[page-1]
	size := len(entries)
	if raw, ok := m.rawSize[page]; ok {
		size = raw
	}
	return domain.StarredPage{Entries: entries, Size: size}, nil
}

func (m *mockClient) Readme(_ context.Context, owner, name string) (string, error) {
	if m.gate != nil {
		<-m.gate
	}
	key := owner + "/" + name
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads[key]++
	if err := m.readmeErr[key]; err != nil {
		return "", err
	}
	body, ok := m.readmes[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return body, nil
}

func (m *mockClient) downloadCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.downloads[key]
}

func (m *mockClient) pageCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.perPage)
}

// mockFactory hands out the same client for every token.
type mockFactory struct {
	client driven.GitHubClient
	tokens []string
	mu     sync.Mutex
}

func (m *mockFactory) ForToken(_ context.Context, token string) driven.GitHubClient {
	m.mu.Lock()
	m.tokens = append(m.tokens, token)
	m.mu.Unlock()
	return m.client
}

// lineStripper splits on newlines without touching markup.
type lineStripper struct{}

func (lineStripper) Strip(source string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			if i > start {
				lines = append(lines, source[start:i])
			}
			start = i + 1
		}
	}
	if start < len(source) {
		lines = append(lines, source[start:])
	}
	return lines
}

func starred(id int64, owner, name string) domain.StarredRepo {
	return domain.StarredRepo{
		ID:        id,
		Name:      name,
		OwnerID:   id + 1000,
		OwnerName: owner,
		StarredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
