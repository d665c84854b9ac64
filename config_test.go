package folio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/site"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TEST_DISQUS", "my-shortname")
	p := writeConfig(t, `
site:
  url: https://example.com/
  title: Jane's notes
  disqusShortname: ${TEST_DISQUS}
  menu:
    - label: Articles
      path: /
  author:
    name: Jane Doe
    photo: /photo.jpg
    contacts:
      github: jane
server:
  cacheTTL: 30s
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", cfg.Site.URL)
	assert.Equal(t, "my-shortname", cfg.Site.DisqusShortname)
	assert.Equal(t, "jane", cfg.Site.Author.Contacts["github"])
	assert.Len(t, cfg.Site.Menu, 1)

	assert.Equal(t, 4, cfg.Site.PostsPerPage)
	assert.Equal(t, "/rss.xml", cfg.Site.FeedPath)
	assert.Equal(t, 1000, cfg.Site.FeedLimit)
	assert.Equal(t, "content", cfg.Build.ContentDir)
	assert.Equal(t, "public", cfg.Build.OutputDir)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, "gh-pages", cfg.Deploy.Branch)
	assert.Equal(t, "Jane Doe", cfg.Deploy.AuthorName)
}

func TestLoadConfigUnlimitedFeed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("site:\n  url: https://example.com\n  title: Notes\n  feedLimit: -1\n"), 0o644))
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, site.NoFeedLimit, cfg.Site.FeedLimit)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_SITE_URL", "https://staging.example.com")
	t.Setenv("FOLIO_ADDR", ":8080")
	t.Setenv("FOLIO_SESSION_SECRET", "s3cret")
	t.Setenv("FOLIO_REBUILD_TOKEN", "tok")
	t.Setenv("FOLIO_DEPLOY_TOKEN", "deploy")
	p := writeConfig(t, "site:\n  url: https://example.com\n  title: Notes\n")

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cfg.Site.URL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "s3cret", cfg.Server.SessionSecret)
	assert.Equal(t, "tok", cfg.Server.RebuildToken)
	assert.Equal(t, "deploy", cfg.Deploy.Token)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"missing url", "site:\n  title: Notes\n", "site.url is required"},
		{"relative url", "site:\n  url: example.com\n  title: Notes\n", "must be absolute"},
		{"missing title", "site:\n  url: https://example.com\n", "site.title is required"},
		{"negative feed limit", "site:\n  url: https://example.com\n  title: Notes\n  feedLimit: -2\n", "feedLimit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "site: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
