package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "wswp.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(PathEnvVar, "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Suggest.Cap)
	assert.Equal(t, 25, cfg.Resolve.MaxCandidates)
	assert.Equal(t, 30*time.Second, cfg.Resolve.Timeout)
	assert.Equal(t, 10, cfg.Browse.PageSize)
	assert.Equal(t, 50, cfg.Browse.Width)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "wswp.db", filepath.Base(cfg.Database.Path))
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, `
suggest:
  cap: 3
  ignore_members: [bot, music]
resolve:
  timeout: 45s
steam:
  api_key: secret
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Suggest.Cap)
	assert.Equal(t, []string{"bot", "music"}, cfg.Suggest.IgnoreMembers)
	assert.Equal(t, 45*time.Second, cfg.Resolve.Timeout)
	assert.Equal(t, "secret", cfg.Steam.APIKey)
	assert.Equal(t, 25, cfg.Resolve.MaxCandidates, "unset keys keep defaults")
}

func TestLoadFileFromEnv(t *testing.T) {
	p := writeFile(t, "browse:\n  page_size: 20\n")
	t.Setenv(PathEnvVar, p)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Browse.PageSize)
}

func TestEnvOverridesFile(t *testing.T) {
	p := writeFile(t, "suggest:\n  cap: 3\n")
	t.Setenv("WSWP_SUGGEST__CAP", "7")
	t.Setenv("WSWP_SUGGEST__IGNORE_MEMBERS", "bot, music ,")
	t.Setenv("WSWP_STEAM__REQUESTS_PER_SECOND", "2.5")
	t.Setenv(DBEnvVar, "/tmp/games.db")

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Suggest.Cap)
	assert.Equal(t, []string{"bot", "music"}, cfg.Suggest.IgnoreMembers)
	assert.InDelta(t, 2.5, cfg.Steam.RequestsPerSecond, 0.001)
	assert.Equal(t, "/tmp/games.db", cfg.Database.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cap", func(c *Config) { c.Suggest.Cap = 0 }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"zero page size", func(c *Config) { c.Browse.PageSize = 0 }},
		{"bad api url", func(c *Config) { c.Steam.APIURL = "not a url" }},
		{"short timeout", func(c *Config) { c.Resolve.Timeout = time.Millisecond }},
		{"no db", func(c *Config) { c.Database.Path = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Defaults().Validate())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "steam.api_key", envKey("WSWP_STEAM__API_KEY"))
	assert.Equal(t, "database.path", envKey("WSWP_DB"))
	assert.Equal(t, "", envKey("WSWP_CONFIG"))
}
