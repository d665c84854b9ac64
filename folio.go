// Package folio is a personal blog and portfolio site generator built with
// Go, Echo, and templ. It reads Markdown content with YAML frontmatter into a
// SQLite index, renders a static site from it, serves a live preview, and
// publishes the output to a git branch.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/site"
)

// App is the central folio application. It wires together the content
// loader, the index, the cache, the static builder and the preview server.
type App struct {
	Config   Config
	Echo     *echo.Echo
	Store    *Store
	Cache    *NodeCache
	Logger   *zap.Logger
	Metrics  *Metrics
	Registry *prom.Registry

	loader         *content.Loader
	rebuildLimiter *RateLimiter
	customRoutes   []func(*App)

	// indexMu serializes reindexing; builds and rebuild hooks may overlap.
	indexMu   sync.Mutex
	setupOnce sync.Once

	assetsMu sync.RWMutex
	assets   map[string]string // site path -> source file
}

// New creates a new folio App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Logger:   zap.NewNop(),
		Registry: prom.NewRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Metrics = NewMetrics(a.Registry)
	a.loader = content.NewLoader(cfg.Build.ContentDir, cfg.Site.URL, a.Logger.Named("content"))
	return a
}

// Open opens the content index. It is safe to call more than once.
func (a *App) Open() error {
	if a.Store != nil {
		return nil
	}
	store, err := NewStore(a.Config.Build.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewNodeCache(store, a.Config.Server.CacheTTL)
	return nil
}

// Reindex loads the content directory, replaces the index with it and
// invalidates the cache. trigger labels the run in logs and metrics.
func (a *App) Reindex(ctx context.Context, trigger string) ([]content.Document, error) {
	if err := a.Open(); err != nil {
		return nil, err
	}
	a.indexMu.Lock()
	defer a.indexMu.Unlock()

	docs, err := a.loader.Load(ctx)
	if err == nil {
		nodes := make([]site.ContentNode, len(docs))
		for i, d := range docs {
			nodes[i] = d.Node
		}
		err = a.Store.ReplaceAll(ctx, nodes)
	}
	a.Metrics.observeReindex(trigger, len(docs), err)
	if err != nil {
		a.Logger.Error("reindex failed", zap.String("trigger", trigger), zap.Error(err))
		return nil, fmt.Errorf("folio: reindex: %w", err)
	}
	a.Cache.Invalidate()
	a.setAssets(docs)
	a.Logger.Info("content indexed", zap.String("trigger", trigger), zap.Int("nodes", len(docs)))
	return docs, nil
}

// feed writes the RSS document for the posts in repo.
func (a *App) feed(ctx context.Context, repo Repository, w io.Writer) error {
	posts, err := repo.ListContentNodes(ctx, Filter{Template: site.TemplatePost}, NewestFirst)
	if err != nil {
		return err
	}
	return writeRSS(w, site.BuildFeed(posts, a.Config.Site), a.Config.Site)
}

// Prepare opens and fills the index and registers middleware and routes.
// After Prepare the app can serve requests through a.Echo.
func (a *App) Prepare(ctx context.Context) error {
	if a.Config.Server.SessionSecret == "" {
		return fmt.Errorf("%w: server.sessionSecret is required", ErrInvalidConfig)
	}
	if _, err := a.Reindex(ctx, "startup"); err != nil {
		return err
	}
	a.setupOnce.Do(func() {
		a.rebuildLimiter = NewRateLimiter(5, time.Minute)
		a.setupMiddleware()
		a.setupRoutes()
		for _, fn := range a.customRoutes {
			fn(a)
		}
	})
	return nil
}

// Serve prepares the app and runs the preview server until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	if err := a.Prepare(ctx); err != nil {
		return err
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	errc := make(chan error, 1)
	go func() {
		a.Logger.Info("preview server listening", zap.String("addr", a.Config.Server.Addr))
		errc <- a.Echo.Start(a.Config.Server.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("folio: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.rebuildLimiter != nil {
		a.rebuildLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) setAssets(docs []content.Document) {
	assets := make(map[string]string)
	for _, d := range docs {
		if d.Node.Draft {
			continue
		}
		for _, asset := range d.Assets {
			assets[asset.Target] = asset.Source
		}
	}
	a.assetsMu.Lock()
	a.assets = assets
	a.assetsMu.Unlock()
}

// assetFile resolves a request path to a content asset or a file in the
// static directory. It returns "" when neither exists.
func (a *App) assetFile(p string) string {
	p = path.Clean("/" + p)
	a.assetsMu.RLock()
	src, ok := a.assets[p]
	a.assetsMu.RUnlock()
	if ok {
		return src
	}
	f := filepath.Join(a.Config.Build.StaticDir, filepath.FromSlash(p))
	if info, err := os.Stat(f); err == nil && info.Mode().IsRegular() {
		return f
	}
	return ""
}
