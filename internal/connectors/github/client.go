package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driven"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Ensure Client implements the interface.
var _ driven.GitHubClient = (*Client)(nil)

// Options configures API clients.
type Options struct {
	// APIURL overrides the REST API root; empty means api.github.com.
	APIURL string

	// Timeout bounds every request; zero means DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond paces the calls of one client.
	RequestsPerSecond float64
}

// Client wraps the go-github client for one access token.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClientWithToken creates a GitHub client with a static access token.
func NewClientWithToken(ctx context.Context, token string, opts Options) (*Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = opts.Timeout
	if tc.Timeout <= 0 {
		tc.Timeout = DefaultTimeout
	}
	return newClient(gh.NewClient(tc), opts)
}

func newClient(client *gh.Client, opts Options) (*Client, error) {
	if opts.APIURL != "" {
		base, err := url.Parse(strings.TrimSuffix(opts.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse api url: %w", err)
		}
		client.BaseURL = base
	}
	return &Client{
		gh:          client,
		rateLimiter: NewRateLimiter(opts.RequestsPerSecond),
	}, nil
}

// Login returns the authenticated user's login.
func (c *Client) Login(ctx context.Context) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	user, resp, err := c.gh.Users.Get(ctx, "")
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "get user")
	}
	if user.GetLogin() == "" {
		return "", fmt.Errorf("get user: %w", domain.ErrMalformedPayload)
	}
	return user.GetLogin(), nil
}

// StarredPage returns one page of the authenticated user's starred repositories.
func (c *Client) StarredPage(ctx context.Context, page, perPage int) (domain.StarredPage, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return domain.StarredPage{}, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.ActivityListStarredOptions{
		ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
	}
	starred, resp, err := c.gh.Activity.ListStarred(ctx, "", opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return domain.StarredPage{}, c.wrapError(err, "list starred")
	}

	result := domain.StarredPage{
		Entries: make([]domain.StarredRepo, 0, len(starred)),
		Size:    len(starred),
	}
	for _, s := range starred {
		if entry, ok := toStarredRepo(s); ok {
			result.Entries = append(result.Entries, entry)
		}
	}
	return result, nil
}

// Readme returns the decoded readme of owner/name.
func (c *Client) Readme(ctx context.Context, owner, name string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	content, resp, err := c.gh.Repositories.GetReadme(ctx, owner, name, nil)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "get readme")
	}
	if content == nil {
		return "", ErrNotAFile
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode readme: %w", err)
	}
	return decoded, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// toStarredRepo validates one listing entry.
func toStarredRepo(s *gh.StarredRepository) (domain.StarredRepo, bool) {
	if s == nil || s.StarredAt == nil || s.Repository == nil {
		return domain.StarredRepo{}, false
	}
	repo := s.Repository
	owner := repo.Owner
	if repo.ID == nil || repo.Name == nil || owner == nil || owner.ID == nil || owner.Login == nil ||
		repo.ForksCount == nil || repo.StargazersCount == nil {
		return domain.StarredRepo{}, false
	}
	return domain.StarredRepo{
		ID:         repo.GetID(),
		Name:       repo.GetName(),
		OwnerID:    owner.GetID(),
		OwnerName:  owner.GetLogin(),
		ForksCount: repo.GetForksCount(),
		StarsCount: repo.GetStargazersCount(),
		StarredAt:  s.StarredAt.Time,
	}, true
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.Observe(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		limitErr := c.rateLimiter.limitError()
		limitErr.ResetAt = rateLimitErr.Rate.Reset.Time
		return limitErr
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		limitErr := c.rateLimiter.limitError()
		if retry := abuseErr.GetRetryAfter(); retry > 0 {
			limitErr.ResetAt = time.Now().Add(retry)
		}
		return limitErr
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
