package github

import (
	"context"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driven"
	"github.com/custodia-labs/starsearch/internal/logger"
)

// Ensure ClientFactory implements the interface.
var _ driven.GitHubClientFactory = (*ClientFactory)(nil)

// ClientFactory creates one API client per access token.
type ClientFactory struct {
	opts Options
}

// NewClientFactory creates a factory whose clients share opts.
func NewClientFactory(opts Options) *ClientFactory {
	return &ClientFactory{opts: opts}
}

// ForToken returns a client authenticated with token.
// An unusable API URL is logged and yields a client whose calls all fail.
func (f *ClientFactory) ForToken(ctx context.Context, token string) driven.GitHubClient {
	client, err := NewClientWithToken(ctx, token, f.opts)
	if err != nil {
		logger.Error("GitHub client: %v", err)
		return failingClient{err: err}
	}
	return client
}

// failingClient answers every call with the same error.
type failingClient struct {
	err error
}

func (c failingClient) Login(context.Context) (string, error) {
	return "", c.err
}

func (c failingClient) StarredPage(context.Context, int, int) (domain.StarredPage, error) {
	return domain.StarredPage{}, c.err
}

func (c failingClient) Readme(context.Context, string, string) (string, error) {
	return "", c.err
}
