package github

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driven"
)

// Ensure Authenticator implements the interface.
var _ driven.GitHubAuthenticator = (*Authenticator)(nil)

// Authenticator runs the OAuth web flow of a GitHub OAuth App.
type Authenticator struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewAuthenticator creates an authenticator for the configured OAuth App.
// redirectURL may be empty, in which case GitHub uses the App's callback URL.
func NewAuthenticator(settings domain.GitHubSettings, redirectURL string, opts Options) *Authenticator {
	endpoint := githuboauth.Endpoint
	if settings.AuthURL != "" {
		endpoint.AuthURL = settings.AuthURL
	}
	if settings.TokenURL != "" {
		endpoint.TokenURL = settings.TokenURL
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			Endpoint:     endpoint,
			RedirectURL:  redirectURL,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AuthURL returns the authorisation page URL for state.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// ExchangeCode trades an authorisation code for an access token.
func (a *Authenticator) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("exchange code: %w", domain.ErrInvalidInput)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: exchange code: %w", domain.ErrAuthInvalid, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrAuthInvalid, ErrNoAccessToken)
	}
	return token.AccessToken, nil
}
