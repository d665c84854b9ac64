package folio

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const rebuildTimeout = 2 * time.Minute

// handleRebuild reindexes the content directory. It is meant for a git
// hook or CI job and authenticates with a bearer token instead of a
// session, so it is exempt from CSRF checks.
func (a *App) handleRebuild(c echo.Context) error {
	token := a.Config.Server.RebuildToken
	if token == "" {
		return c.NoContent(http.StatusNotFound)
	}
	if !a.rebuildLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many rebuild requests. Try again later.")
	}
	given := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
		return c.String(http.StatusUnauthorized, "Unauthorized")
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), rebuildTimeout)
	defer cancel()
	docs, err := a.Reindex(ctx, "hook")
	if err != nil {
		a.Logger.Warn("rebuild hook failed", zap.String("remote_ip", c.RealIP()), zap.Error(err))
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]int{"nodes": len(docs)})
}

// handleTheme flips the visitor's light/dark preference and sends them back
// to the page they came from.
func (a *App) handleTheme(c echo.Context) error {
	next := "dark"
	if Theme(c) == "dark" {
		next = "light"
	}
	if err := setTheme(c, next); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, safeReturnPath(c.FormValue("return")))
}

// safeReturnPath only allows site-relative redirect targets.
func safeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return "/"
	}
	return p
}
