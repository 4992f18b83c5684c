package driven

import (
	"context"

	"github.com/custodia-labs/starsearch/internal/core/domain"
)

// GitHubAuthenticator performs the OAuth web flow against GitHub.
type GitHubAuthenticator interface {
	// AuthURL returns the authorisation page URL for state.
	AuthURL(state string) string

	// ExchangeCode trades an authorisation code for an access token.
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// GitHubClient calls the REST API on behalf of one access token.
type GitHubClient interface {
	// Login returns the authenticated user's login.
	Login(ctx context.Context) (string, error)

	// StarredPage returns one page (1-based) of the user's starred repositories.
	StarredPage(ctx context.Context, page, perPage int) (domain.StarredPage, error)

	// Readme returns the raw readme body of owner/name.
	Readme(ctx context.Context, owner, name string) (string, error)
}

// GitHubClientFactory builds clients bound to an access token.
type GitHubClientFactory interface {
	ForToken(ctx context.Context, token string) GitHubClient
}
