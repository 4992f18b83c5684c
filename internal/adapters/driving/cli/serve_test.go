package cli

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/starsearch/internal/core/domain"
)

func testServeCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "serve"}
	cmd.Flags().String("listen", "", "")
	cmd.Flags().String("mcp-addr", "", "")
	cmd.Flags().String("public-url", "", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestApplyServeFlags(t *testing.T) {
	t.Run("unset flags keep settings", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		require.NoError(t, applyServeFlags(testServeCmd(t), &settings))
		assert.Equal(t, domain.DefaultAppSettings(), settings)
	})

	t.Run("set flags override", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		cmd := testServeCmd(t, "--listen", ":9000", "--mcp-addr", ":9001", "--public-url", "https://stars.example.com")
		require.NoError(t, applyServeFlags(cmd, &settings))

		assert.Equal(t, ":9000", settings.Server.ListenAddr)
		assert.Equal(t, ":9001", settings.Server.MCPAddr)
		assert.Equal(t, "https://stars.example.com", settings.Server.PublicURL)
	})

	t.Run("explicit empty value wins", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Server.MCPAddr = ":8081"
		require.NoError(t, applyServeFlags(testServeCmd(t, "--mcp-addr", ""), &settings))
		assert.Empty(t, settings.Server.MCPAddr)
	})
}

func TestCheckCredentials(t *testing.T) {
	tests := []struct {
		name    string
		gh      domain.GitHubSettings
		wantErr string
	}{
		{"complete", domain.GitHubSettings{ClientID: "id", ClientSecret: "secret"}, ""},
		{"missing id", domain.GitHubSettings{ClientSecret: "secret"}, "client id"},
		{"missing secret", domain.GitHubSettings{ClientID: "id"}, "client secret"},
		{"missing both", domain.GitHubSettings{}, "client id and client secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkCredentials(tt.gh)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCallbackURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/oauth/github", callbackURL("http://localhost:8080"))
	assert.Equal(t, "https://stars.example.com/oauth/github", callbackURL("https://stars.example.com/"))
}

func TestNewApp(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.GitHub = domain.GitHubSettings{ClientID: "id", ClientSecret: "secret"}

	t.Run("without MCP", func(t *testing.T) {
		a, err := newApp(context.Background(), settings)
		require.NoError(t, err)
		assert.NotNil(t, a.stars)
		assert.NotNil(t, a.web)
		assert.Nil(t, a.mcp)
		assert.Equal(t, domain.DefaultMinQueryLength, a.stars.MinQueryLength())
		assert.Contains(t, a.stars.AuthURL("st"), "client_id=id")
	})

	t.Run("with MCP", func(t *testing.T) {
		withMCP := settings
		withMCP.Server.MCPAddr = "127.0.0.1:0"
		a, err := newApp(context.Background(), withMCP)
		require.NoError(t, err)
		assert.NotNil(t, a.mcp)
	})

	t.Run("invalid settings", func(t *testing.T) {
		bad := settings
		bad.Fetch.SlowPoolSize = 0
		_, err := newApp(context.Background(), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

func TestReadLine(t *testing.T) {
	assert.Equal(t, "s3cret", readLine(strings.NewReader("  s3cret \nmore")))
	assert.Equal(t, "partial", readLine(strings.NewReader("partial")))
}

func TestReadSecret_NonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "secret")
	require.NoError(t, err)
	_, err = f.WriteString("piped-secret\n")
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "piped-secret", readSecret(f))
}

func TestServeCmd_RequiresCredentials(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STARSEARCH_GITHUB_CLIENT_ID", "")
	t.Setenv("STARSEARCH_GITHUB_CLIENT_SECRET", "")

	rootCmd.SetArgs([]string{"serve", "--config", dir + "/config.toml"})
	defer func() {
		rootCmd.SetArgs(nil)
		configPath = ""
	}()

	err := rootCmd.Execute()
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}
