package folio

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/folio/site"
)

func (a *App) setupRoutes() {
	e := a.Echo

	e.StaticFS("/static", embeddedFS())
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/manifest.webmanifest", a.handleManifest)
	e.GET(a.Config.Site.FeedPath, a.handleFeed)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: a.Registry}))

	e.GET("/", a.handleIndex)
	e.GET("/page/:n/", a.handleIndexPage)
	e.GET("/tags/", a.handleTags)
	e.GET("/tag/:tag/", a.handleTag)
	e.GET(presentationsPath, a.handlePresentations)
	e.GET("/posts/:slug/", a.handleNode)
	e.GET("/presentations/:slug/", a.handleNode)
	e.GET("/pages/:slug/", a.handleNode)

	e.POST("/theme/", a.handleTheme)
	e.POST(hooksPrefix+"rebuild/", a.handleRebuild)

	// Content with custom slugs and the files next to it.
	e.GET("/*", a.handleFallback)
}

func (a *App) pages() pages {
	return pages{cfg: a.Config.Site, repo: a.Cache}
}

func (a *App) opts(c echo.Context) pageOpts {
	return pageOpts{Theme: Theme(c), CSRFToken: CsrfToken(c)}
}

// respond renders cmp, mapping ErrNotFound to the 404 page.
func (a *App) respond(c echo.Context, cmp templ.Component, err error) error {
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.pages().notFound(a.opts(c)))
	}
	if err != nil {
		return err
	}
	return Render(c, cmp)
}

func (a *App) handleIndex(c echo.Context) error {
	cmp, err := a.pages().index(c.Request().Context(), 1, a.opts(c))
	return a.respond(c, cmp, err)
}

func (a *App) handleIndexPage(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		return a.respond(c, nil, ErrNotFound)
	}
	if n == 1 {
		return c.Redirect(http.StatusMovedPermanently, "/")
	}
	cmp, err := a.pages().index(c.Request().Context(), n, a.opts(c))
	return a.respond(c, cmp, err)
}

func (a *App) handleTags(c echo.Context) error {
	cmp, err := a.pages().tags(c.Request().Context(), a.opts(c))
	return a.respond(c, cmp, err)
}

func (a *App) handleTag(c echo.Context) error {
	slug, err := url.PathUnescape(c.Param("tag"))
	if err != nil {
		return a.respond(c, nil, ErrNotFound)
	}
	cmp, err := a.pages().tag(c.Request().Context(), slug, a.opts(c))
	return a.respond(c, cmp, err)
}

func (a *App) handlePresentations(c echo.Context) error {
	cmp, err := a.pages().presentations(c.Request().Context(), a.opts(c))
	return a.respond(c, cmp, err)
}

func (a *App) handleNode(c echo.Context) error {
	cmp, err := a.pages().node(c.Request().Context(), c.Request().URL.Path, false, a.opts(c))
	return a.respond(c, cmp, err)
}

// handleFallback serves content assets and the user's static files, then
// nodes with custom slugs.
func (a *App) handleFallback(c echo.Context) error {
	p := c.Request().URL.Path
	if f := a.assetFile(p); f != "" {
		return c.File(f)
	}
	if isPagePath(p) {
		cmp, err := a.pages().node(c.Request().Context(), p, false, a.opts(c))
		return a.respond(c, cmp, err)
	}
	return a.respond(c, nil, ErrNotFound)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, robotsTxt(a.Config.Site))
}

func (a *App) handleSitemap(c echo.Context) error {
	rs, err := a.pages().routes(c.Request().Context())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeSitemap(&buf, sitemapURLs(a.Config.Site.URL, rs)); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

func (a *App) handleFeed(c echo.Context) error {
	var buf bytes.Buffer
	if err := a.feed(c.Request().Context(), a.Cache, &buf); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
}

func (a *App) handleManifest(c echo.Context) error {
	data, err := site.BuildManifest(a.Config.Site, a.Config.Build.Icon)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/manifest+json", data)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusNotFound {
		_ = a.respond(c, nil, ErrNotFound)
		return
	}
	code := http.StatusInternalServerError
	if he != nil {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
