package folio

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eringen/folio/site"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("folio: invalid config")

// Config holds all configuration for a folio site.
type Config struct {
	Site   site.SiteConfig `yaml:"site"`
	Build  BuildConfig     `yaml:"build"`
	Server ServerConfig    `yaml:"server"`
	Deploy DeployConfig    `yaml:"deploy"`
}

// BuildConfig locates the inputs and outputs of a build.
type BuildConfig struct {
	ContentDir   string `yaml:"contentDir"`   // Default "content"
	OutputDir    string `yaml:"outputDir"`    // Default "public"
	StaticDir    string `yaml:"staticDir"`    // Default "static"
	DatabasePath string `yaml:"databasePath"` // Default "data/folio.db"
	Icon         string `yaml:"icon"`         // Manifest icon, site-relative
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr          string        `yaml:"addr"` // Default ":3000"
	SessionSecret string        `yaml:"sessionSecret"`
	CookieSecure  bool          `yaml:"cookieSecure"`
	CacheTTL      time.Duration `yaml:"cacheTTL"` // Default 5m
	RebuildToken  string        `yaml:"rebuildToken"`
}

// DeployConfig names the git remote and branch the output is published to.
type DeployConfig struct {
	Repo        string `yaml:"repo"`
	Branch      string `yaml:"branch"` // Default "gh-pages"
	AuthorName  string `yaml:"authorName"`
	AuthorEmail string `yaml:"authorEmail"`
	Token       string `yaml:"token"`
}

// LoadConfig reads a YAML config file. Environment variables referenced as
// ${VAR} are expanded before decoding; FOLIO_* variables override the
// decoded values. Defaults are applied and the result is validated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("folio: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("folio: parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	for key, dst := range map[string]*string{
		"FOLIO_SITE_URL":       &c.Site.URL,
		"FOLIO_ADDR":           &c.Server.Addr,
		"FOLIO_SESSION_SECRET": &c.Server.SessionSecret,
		"FOLIO_REBUILD_TOKEN":  &c.Server.RebuildToken,
		"FOLIO_DEPLOY_TOKEN":   &c.Deploy.Token,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
}

func (c *Config) setDefaults() {
	s := &c.Site
	s.URL = strings.TrimRight(s.URL, "/")
	if s.PathPrefix == "" {
		s.PathPrefix = "/"
	}
	if s.PostsPerPage <= 0 {
		s.PostsPerPage = 4
	}
	if s.FeedPath == "" {
		s.FeedPath = "/rss.xml"
	}
	if s.FeedLimit == 0 {
		s.FeedLimit = 1000
	}
	if s.ThemeColor == "" {
		s.ThemeColor = "hsl(31, 92%, 62%)"
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = "#fff"
	}

	if c.Build.ContentDir == "" {
		c.Build.ContentDir = "content"
	}
	if c.Build.OutputDir == "" {
		c.Build.OutputDir = "public"
	}
	if c.Build.StaticDir == "" {
		c.Build.StaticDir = "static"
	}
	if c.Build.DatabasePath == "" {
		c.Build.DatabasePath = "data/folio.db"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.CacheTTL == 0 {
		c.Server.CacheTTL = 5 * time.Minute
	}

	if c.Deploy.Branch == "" {
		c.Deploy.Branch = "gh-pages"
	}
	if c.Deploy.AuthorName == "" {
		c.Deploy.AuthorName = c.Site.Author.Name
	}
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	if c.Site.URL == "" {
		return fmt.Errorf("%w: site.url is required", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Site.URL, "http://") && !strings.HasPrefix(c.Site.URL, "https://") {
		return fmt.Errorf("%w: site.url must be absolute, got %q", ErrInvalidConfig, c.Site.URL)
	}
	if strings.TrimSpace(c.Site.Title) == "" {
		return fmt.Errorf("%w: site.title is required", ErrInvalidConfig)
	}
	if c.Site.FeedLimit < site.NoFeedLimit {
		return fmt.Errorf("%w: site.feedLimit must be positive, or -1 for no limit", ErrInvalidConfig)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the logger used by the app and everything it starts.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.Logger = l
		}
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the app before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
