package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestLoadProfile(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		dir := t.TempDir()
		p, err := LoadProfile(filepath.Join(dir, "config.yaml"), noEnv)
		require.NoError(t, err)
		assert.Equal(t, defaultBaseURL, p.BaseURL)
		assert.Equal(t, filepath.Join(dir, "credentials.yaml"), p.CredentialsFile)
		assert.Equal(t, defaultTimeout, p.Timeout)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		raw := "base_url: https://api.polar.example\ntimeout: 5s\nlog_level: debug\n"
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

		p, err := LoadProfile(path, noEnv)
		require.NoError(t, err)
		assert.Equal(t, "https://api.polar.example", p.BaseURL)
		assert.Equal(t, 5*time.Second, p.Timeout)
		assert.Equal(t, "debug", p.LogLevel)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base_url: https://api.polar.example\n"), 0o600))
		env := map[string]string{
			"DISPATCHCTL_BASE_URL":    "http://127.0.0.1:9000",
			"DISPATCHCTL_CREDENTIALS": "/tmp/creds.yaml",
		}

		p, err := LoadProfile(path, func(k string) string { return env[k] })
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:9000", p.BaseURL)
		assert.Equal(t, "/tmp/creds.yaml", p.CredentialsFile)
	})

	t.Run("rejects a non-http base url", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base_url: ftp://api.polar.example\n"), 0o600))

		_, err := LoadProfile(path, noEnv)
		assert.ErrorContains(t, err, "base_url")
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base_url: [\n"), 0o600))

		_, err := LoadProfile(path, noEnv)
		assert.ErrorContains(t, err, "parse profile")
	})
}

func TestProfileSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Profile{
		BaseURL:         "https://api.polar.example",
		CredentialsFile: "/var/lib/dispatchctl/credentials.yaml",
		Timeout:         20 * time.Second,
		LogLevel:        "info",
	}
	require.NoError(t, want.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadProfile(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
