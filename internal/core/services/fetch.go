package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driven"
	"github.com/custodia-labs/starsearch/internal/core/ports/driving"
	"github.com/custodia-labs/starsearch/internal/logger"
)

// UnknownUsername is stored when the profile call fails.
const UnknownUsername = "(unknown)"

// Ensure FetchTask implements the interface.
var _ driving.FetchTask = (*FetchTask)(nil)

// FetchTask tracks one pipeline run.
type FetchTask struct {
	done chan struct{}
	once sync.Once
}

func newFetchTask() *FetchTask {
	return &FetchTask{done: make(chan struct{})}
}

// Done is closed once the session reached the Fetched state.
func (t *FetchTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the pipeline finishes or ctx ends.
func (t *FetchTask) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *FetchTask) finish() {
	t.once.Do(func() { close(t.done) })
}

// FetchPipeline loads a session's starred repositories and their readmes.
//
// Metadata calls (token exchange, profile, listing pages) go through the fast
// pool; readme downloads go through the slow pool. Both pools are shared by
// every pipeline the process runs. No step is retried: failures are logged and
// the session ends up with whatever was gathered.
type FetchPipeline struct {
	ctx      context.Context
	repos    driven.RepoCache
	auth     driven.GitHubAuthenticator
	clients  driven.GitHubClientFactory
	stripper driven.Stripper
	clock    driven.Clock
	fast     *Pool
	slow     *Pool
	settings domain.FetchSettings
}

// NewFetchPipeline creates a pipeline. Pipelines launched from it run under
// ctx; cancelling ctx makes in-flight calls fail, which the pipeline treats
// like any other remote failure.
func NewFetchPipeline(
	ctx context.Context,
	repos driven.RepoCache,
	auth driven.GitHubAuthenticator,
	clients driven.GitHubClientFactory,
	stripper driven.Stripper,
	clock driven.Clock,
	settings domain.FetchSettings,
) *FetchPipeline {
	return &FetchPipeline{
		ctx:      ctx,
		repos:    repos,
		auth:     auth,
		clients:  clients,
		stripper: stripper,
		clock:    clock,
		fast:     NewPool("fast", settings.FastPoolSize),
		slow:     NewPool("slow", settings.SlowPoolSize),
		settings: settings,
	}
}

// Launch starts fetching for session in the background and returns at once.
// It must be called at most once per session.
func (p *FetchPipeline) Launch(session *domain.Session, code string) *FetchTask {
	task := newFetchTask()
	go func() {
		defer task.finish()
		p.run(session, code)
	}()
	return task
}

// run drives one session from NotFetched to Fetched.
func (p *FetchPipeline) run(session *domain.Session, code string) {
	logger.Section("Fetch Pipeline")

	token, err := p.exchangeCode(code)
	if err != nil || token == "" {
		logger.Warn("Token exchange failed: %v", err)
		session.AdvanceFetchState(domain.FetchStateFetched)
		return
	}
	session.SetAccessToken(token)
	client := p.clients.ForToken(p.ctx, token)

	session.SetUsername(p.fetchUsername(client))
	session.AdvanceFetchState(domain.FetchStateFetching)

	entries := p.fetchListing(client)
	repos := p.fetchRepos(session, client, entries)

	// repos must be visible before the state flips.
	session.SetRepos(repos)
	session.AdvanceFetchState(domain.FetchStateFetched)

	progress := session.Progress()
	logger.Info("Fetch complete for %s: %d repos, %d/%d readmes",
		session.Username(), len(repos), progress.FetchedCount, progress.TotalCount)
}

func (p *FetchPipeline) exchangeCode(code string) (string, error) {
	var token string
	var err error
	if poolErr := p.fast.Do(p.ctx, func() {
		ctx, cancel := p.callContext()
		defer cancel()
		token, err = p.auth.ExchangeCode(ctx, code)
	}); poolErr != nil {
		return "", poolErr
	}
	return token, err
}

func (p *FetchPipeline) fetchUsername(client driven.GitHubClient) string {
	var login string
	var err error
	if poolErr := p.fast.Do(p.ctx, func() {
		ctx, cancel := p.callContext()
		defer cancel()
		login, err = client.Login(ctx)
	}); poolErr != nil {
		err = poolErr
	}
	if err != nil || login == "" {
		logger.Warn("Profile fetch failed: %v", err)
		return UnknownUsername
	}
	logger.Debug("Authenticated as %s", login)
	return login
}

// fetchListing pages through the starred listing until a short page, the
// repo cap or a failed page.
func (p *FetchPipeline) fetchListing(client driven.GitHubClient) []domain.StarredRepo {
	var entries []domain.StarredRepo
	perPage := p.settings.PageSize

	for page := 1; ; page++ {
		var result domain.StarredPage
		var err error
		if poolErr := p.fast.Do(p.ctx, func() {
			ctx, cancel := p.callContext()
			defer cancel()
			result, err = client.StarredPage(ctx, page, perPage)
		}); poolErr != nil {
			err = poolErr
		}
		if err != nil {
			logger.Warn("Starred page %d failed, keeping %d entries: %v", page, len(entries), err)
			break
		}

		entries = append(entries, result.Entries...)
		logger.Debug("Starred page %d: %d entries (%d raw)", page, len(result.Entries), result.Size)

		if result.Size < perPage || len(entries) >= p.settings.MaxRepos {
			break
		}
	}

	if len(entries) > p.settings.MaxRepos {
		entries = entries[:p.settings.MaxRepos]
	}
	return entries
}

// fetchRepos resolves listing entries to cached repos, downloading readmes
// for the ones not cached yet. Cached repos come first, in listing order.
func (p *FetchPipeline) fetchRepos(
	session *domain.Session, client driven.GitHubClient, entries []domain.StarredRepo,
) []*domain.Repo {
	session.StartProgress(0, len(entries))

	var cached, fresh []*domain.Repo
	now := p.clock.Now()
	for _, entry := range entries {
		if repo, ok := p.repos.Lookup(entry.ID); ok {
			cached = append(cached, repo)
			continue
		}
		fresh = append(fresh, domain.NewRepo(entry, now))
	}

	session.StartProgress(len(cached), len(entries))
	logger.Info("Fetching %d readmes (%d cached)", len(fresh), len(cached))

	downloads := make([]func(), len(fresh))
	for i, repo := range fresh {
		downloads[i] = func() { p.fetchReadme(session, client, repo) }
	}
	if err := p.slow.DoAll(p.ctx, downloads); err != nil {
		logger.Warn("Readme downloads stopped early: %v", err)
	}

	repos := make([]*domain.Repo, 0, len(cached)+len(fresh))
	repos = append(repos, cached...)
	for _, repo := range fresh {
		repos = append(repos, p.repos.InsertIfAbsent(repo))
	}
	return repos
}

func (p *FetchPipeline) fetchReadme(session *domain.Session, client driven.GitHubClient, repo *domain.Repo) {
	ctx, cancel := p.callContext()
	defer cancel()

	body, err := client.Readme(ctx, repo.OwnerName, repo.Name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("Readme %s/%s: none", repo.OwnerName, repo.Name)
		return
	case errors.Is(err, domain.ErrRateLimited):
		logger.Warn("Readme %s/%s skipped, rate limited: %v", repo.OwnerName, repo.Name, err)
		return
	case err != nil:
		logger.Warn("Readme %s/%s failed: %v", repo.OwnerName, repo.Name, err)
		return
	}
	repo.SetReadme(p.stripper.Strip(body))
	session.IncrementFetched()
}

func (p *FetchPipeline) callContext() (context.Context, context.CancelFunc) {
	if p.settings.RequestTimeout > 0 {
		return context.WithTimeout(p.ctx, p.settings.RequestTimeout)
	}
	return context.WithCancel(p.ctx)
}
