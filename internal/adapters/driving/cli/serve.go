package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/starsearch/internal/adapters/driven/clock"
	"github.com/custodia-labs/starsearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/starsearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/starsearch/internal/adapters/driving/mcp"
	"github.com/custodia-labs/starsearch/internal/adapters/driving/web"
	"github.com/custodia-labs/starsearch/internal/connectors/github"
	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/services"
	"github.com/custodia-labs/starsearch/internal/logger"
	"github.com/custodia-labs/starsearch/internal/normalisers/markdown"
)

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the starsearch web server.

Users sign in at / with GitHub. Their starred repositories are then fetched
in the background and /search scans the readmes.

A GitHub OAuth application is required. Register its callback as
<public-url>/oauth/github and configure its client id and secret in the
settings file, via STARSEARCH_GITHUB_CLIENT_ID and
STARSEARCH_GITHUB_CLIENT_SECRET, or interactively when prompted.

Examples:
  starsearch serve
  starsearch serve --listen :9000 --public-url https://stars.example.com
  starsearch serve --mcp-addr :8081`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "web listen address (overrides settings)")
	serveCmd.Flags().String("mcp-addr", "", "MCP streamable HTTP listen address (overrides settings)")
	serveCmd.Flags().String("public-url", "", "externally visible base URL (overrides settings)")
	serveCmd.Flags().Bool("no-watch", false, "do not reload the settings file when it changes")
	rootCmd.AddCommand(serveCmd)
}

// app holds the wired components of a running server.
type app struct {
	stars    *services.StarService
	web      *web.Server
	mcp      *mcp.Server
	repos    *memory.RepoCache
	sessions *memory.SessionCache
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, &settings); err != nil {
		return err
	}

	if settings.GitHub.ClientSecret == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		cmd.Print("GitHub client secret: ")
		settings.GitHub.ClientSecret = readSecret(os.Stdin)
		cmd.Println()
	}
	if err := checkCredentials(settings.GitHub); err != nil {
		return err
	}

	logger.SetTimestamps(true)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, settings)
	if err != nil {
		return err
	}

	if err := a.web.Start(); err != nil {
		return err
	}
	cmd.Printf("starsearch listening on %s (public URL %s)\n", a.web.Addr(), settings.Server.PublicURL)

	mcpErr := make(chan error, 1)
	if a.mcp != nil {
		go func() { mcpErr <- a.mcp.RunHTTP(ctx, settings.Server.MCPAddr) }()
	}

	noWatch, _ := cmd.Flags().GetBool("no-watch")
	if !noWatch {
		go watchSettings(ctx, store, a.stars)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case runErr = <-a.web.Errors():
		logger.Error("Web server failed: %v", runErr)
	case runErr = <-mcpErr:
		if runErr != nil {
			logger.Error("MCP server failed: %v", runErr)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.web.Stop(shutdownCtx); err != nil {
		logger.Warn("Web server shutdown: %v", err)
	}
	return runErr
}

// newApp wires the core services and driving adapters. Fetch pipelines run
// under ctx, so cancelling it aborts in-flight GitHub calls.
func newApp(ctx context.Context, settings domain.AppSettings) (*app, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	clk := clock.System{}
	repos := memory.NewRepoCache()
	sessions := memory.NewSessionCache(repos, settings.Purge, clk.Now())

	opts := github.Options{
		APIURL:            settings.GitHub.APIURL,
		Timeout:           settings.Fetch.RequestTimeout,
		RequestsPerSecond: settings.Fetch.RequestsPerSecond,
	}
	auth := github.NewAuthenticator(settings.GitHub, callbackURL(settings.Server.PublicURL), opts)
	clients := github.NewClientFactory(opts)

	pipeline := services.NewFetchPipeline(ctx, repos, auth, clients, markdown.New(), clk, settings.Fetch)
	stars := services.NewStarService(
		sessions,
		auth,
		pipeline,
		services.NewSearchEngine(),
		clk,
		settings.Purge,
		settings.Search,
	)

	a := &app{
		stars:    stars,
		web:      web.NewServer(settings.Server.ListenAddr, stars, settings.Server.AdminPassword),
		repos:    repos,
		sessions: sessions,
	}

	if settings.Server.MCPAddr != "" {
		server, err := mcp.NewServer(&mcp.Ports{Stars: stars})
		if err != nil {
			return nil, err
		}
		a.mcp = server
	}
	return a, nil
}

// applyServeFlags lets explicitly set flags win over every other source.
func applyServeFlags(cmd *cobra.Command, settings *domain.AppSettings) error {
	flags := []struct {
		name string
		dst  *string
	}{
		{"listen", &settings.Server.ListenAddr},
		{"mcp-addr", &settings.Server.MCPAddr},
		{"public-url", &settings.Server.PublicURL},
	}
	for _, f := range flags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		value, err := cmd.Flags().GetString(f.name)
		if err != nil {
			return fmt.Errorf("getting %s flag: %w", f.name, err)
		}
		*f.dst = value
	}
	return nil
}

func checkCredentials(gh domain.GitHubSettings) error {
	var missing []string
	if gh.ClientID == "" {
		missing = append(missing, "client id")
	}
	if gh.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: GitHub %s not configured", domain.ErrInvalidConfig, strings.Join(missing, " and "))
	}
	return nil
}

// callbackURL joins the public base URL with the OAuth callback path.
func callbackURL(publicURL string) string {
	return strings.TrimRight(publicURL, "/") + web.CallbackPath
}

// watchSettings re-applies live-tunable settings when the file changes.
func watchSettings(ctx context.Context, store *file.SettingsStore, stars *services.StarService) {
	err := file.NewWatcher(store).Watch(ctx, func(s domain.AppSettings) {
		if s.Search.MinQueryLength != stars.MinQueryLength() {
			logger.Info("Minimum query length now %d", s.Search.MinQueryLength)
		}
		stars.SetMinQueryLength(s.Search.MinQueryLength)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("Settings are not watched: %v", err)
	}
}

// readSecret reads a line without echo when in is a terminal.
func readSecret(in *os.File) string {
	if term.IsTerminal(int(in.Fd())) {
		secret, err := term.ReadPassword(int(in.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(in)
}

func readLine(r io.Reader) string {
	input, _ := bufio.NewReader(r).ReadString('\n') //nolint:errcheck // partial input is still used
	return strings.TrimSpace(input)
}
