package folio

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/site"
)

// BuildReport summarizes a finished static build.
type BuildReport struct {
	Pages    int
	Assets   int
	Static   int
	Duration time.Duration
}

// builder writes one static build into dir. It is used once and thrown away.
type builder struct {
	app    *App
	pages  pages
	dir    string
	report BuildReport
	routes []route
}

// Build reindexes the content directory and renders the whole site into the
// output directory. Files in the output directory that the build does not
// produce are removed, except for the .git directory used by Deploy.
func (a *App) Build(ctx context.Context) (report BuildReport, err error) {
	start := time.Now()
	defer func() {
		report.Duration = time.Since(start)
		a.Metrics.observeBuild(report.Duration, err)
	}()

	docs, err := a.Reindex(ctx, "build")
	if err != nil {
		return BuildReport{}, err
	}

	b := &builder{
		app:   a,
		pages: pages{cfg: a.Config.Site, repo: a.Store},
		dir:   a.Config.Build.OutputDir,
	}
	if err := cleanOutput(b.dir); err != nil {
		return BuildReport{}, fmt.Errorf("folio: clean output: %w", err)
	}
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"static", b.writeStatic},
		{"assets", func(ctx context.Context) error { return b.writeAssets(ctx, docs) }},
		{"pages", b.writePages},
		{"not found", b.writeNotFound},
		{"feed", b.writeFeed},
		{"manifest", b.writeManifest},
		{"sitemap", b.writeSitemap},
		{"robots", b.writeRobots},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return BuildReport{}, err
		}
		if err := step.fn(ctx); err != nil {
			return BuildReport{}, fmt.Errorf("folio: build %s: %w", step.name, err)
		}
	}

	a.Logger.Info("site built",
		zap.String("dir", b.dir),
		zap.Int("pages", b.report.Pages),
		zap.Int("assets", b.report.Assets),
		zap.Int("static", b.report.Static),
		zap.Duration("took", time.Since(start)),
	)
	return b.report, nil
}

// cleanOutput empties dir, keeping a top-level .git.
func cleanOutput(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() == ".git" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// out maps a site-relative path to a file in the output directory. Paths
// ending in "/" get an index.html.
func (b *builder) out(sitePath string) string {
	if sitePath == "" || sitePath[len(sitePath)-1] == '/' {
		sitePath = path.Join(sitePath, "index.html")
	}
	return filepath.Join(b.dir, filepath.FromSlash(sitePath))
}

func (b *builder) writeFile(sitePath string, data []byte) error {
	p := b.out(sitePath)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func (b *builder) writeStatic(context.Context) error {
	embedded := embeddedFS()
	err := fs.WalkDir(embedded, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(embedded, p)
		if err != nil {
			return err
		}
		return b.writeFile("/static/"+p, data)
	})
	if err != nil {
		return err
	}
	n, err := copyTree(b.app.Config.Build.StaticDir, b.dir)
	b.report.Static = n
	return err
}

func (b *builder) writeAssets(ctx context.Context, docs []content.Document) error {
	for _, d := range docs {
		if d.Node.Draft {
			continue
		}
		for _, asset := range d.Assets {
			if err := ctx.Err(); err != nil {
				return err
			}
			resized, err := publishAsset(asset.Source, b.out(asset.Target))
			if err != nil {
				return fmt.Errorf("%s: %w", d.Node.SourcePath, err)
			}
			b.report.Assets++
			b.app.Metrics.incAsset(resized)
		}
	}
	return nil
}

// writePages renders every route. The routes are kept for the sitemap.
func (b *builder) writePages(ctx context.Context) error {
	rs, err := b.pages.routes(ctx)
	if err != nil {
		return err
	}
	for _, r := range rs {
		if err := ctx.Err(); err != nil {
			return err
		}
		cmp, err := r.render(ctx, pageOpts{})
		if err != nil {
			return fmt.Errorf("%s: %w", r.path, err)
		}
		if err := renderFile(ctx, b.out(r.path), cmp); err != nil {
			return err
		}
		b.report.Pages++
		b.app.Metrics.incPage(r.kind)
	}
	b.routes = rs
	return nil
}

// writeNotFound writes 404.html. It is left out of the sitemap.
func (b *builder) writeNotFound(ctx context.Context) error {
	if err := renderFile(ctx, b.out("/404.html"), b.pages.notFound(pageOpts{})); err != nil {
		return err
	}
	b.report.Pages++
	b.app.Metrics.incPage("not_found")
	return nil
}

func (b *builder) writeFeed(ctx context.Context) error {
	var buf bytes.Buffer
	if err := b.app.feed(ctx, b.app.Store, &buf); err != nil {
		return err
	}
	return b.writeFile(b.app.Config.Site.FeedPath, buf.Bytes())
}

func (b *builder) writeManifest(context.Context) error {
	data, err := site.BuildManifest(b.app.Config.Site, b.app.Config.Build.Icon)
	if err != nil {
		return err
	}
	return b.writeFile("/manifest.webmanifest", data)
}

func (b *builder) writeSitemap(context.Context) error {
	var buf bytes.Buffer
	if err := writeSitemap(&buf, sitemapURLs(b.app.Config.Site.URL, b.routes)); err != nil {
		return err
	}
	return b.writeFile("/sitemap.xml", buf.Bytes())
}

func (b *builder) writeRobots(context.Context) error {
	return b.writeFile("/robots.txt", []byte(robotsTxt(b.app.Config.Site)))
}

func robotsTxt(cfg site.SiteConfig) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + site.JoinURL(cfg.URL, "/sitemap.xml") + "\n"
}
