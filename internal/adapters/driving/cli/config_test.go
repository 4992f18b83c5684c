package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		configPath = ""
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc123", "****"},
		{"12345678", "****"},
		{"0123456789abcdef", "0123...cdef"},
		{"", "****"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, maskSecret(tt.input))
	}
}

func TestConfigCmd_ShowsMaskedSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[github]\nclient_id = 'id'\nclient_secret = 'supersecretvalue'\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	out, err := runRoot(t, "config", "--config", path)
	require.NoError(t, err)

	assert.Contains(t, out, "[github]")
	assert.Contains(t, out, "supe...alue")
	assert.NotContains(t, out, "supersecretvalue")
	assert.Contains(t, out, "min_query_length = 3")
}

func TestConfigCmd_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[fetch]\nmax_repos = -1\n"), 0600))

	_, err := runRoot(t, "config", "--config", path)
	assert.Error(t, err)
}

func TestConfigPathCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := runRoot(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestConfigInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	out, err := runRoot(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[purge]")

	_, err = runRoot(t, "config", "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runRoot(t, "config", "init", "--force", "--config", path)
	assert.NoError(t, err)
}

func TestConfigEnvCmd(t *testing.T) {
	out, err := runRoot(t, "config", "env")
	require.NoError(t, err)
	assert.Contains(t, out, "STARSEARCH_GITHUB_CLIENT_SECRET")
	assert.Contains(t, out, "STARSEARCH_MIN_QUERY_LENGTH")
}
