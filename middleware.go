package folio

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	sessionName = "folio_session"
	hooksPrefix = "/hooks/"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	log := a.Logger.Named("http")
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				log.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Subsystem:  "http",
		Registerer: a.Registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/static/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		HSTSMaxAge:         31536000,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:  middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		CookieName:  "_csrf",
		CookiePath:  "/",
		CookieSameSite: func() http.SameSite {
			return http.SameSiteLaxMode
		}(),
		CookieSecure: a.Config.Server.CookieSecure,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, hooksPrefix)
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return !isPagePath(p) || a.assetFile(p) != ""
		},
	}))

	e.Use(cacheControlMiddleware)
}

// isPagePath reports whether path names an HTML page rather than a file.
func isPagePath(path string) bool {
	if strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, hooksPrefix) || path == "/metrics" {
		return false
	}
	last := path[strings.LastIndex(path, "/")+1:]
	return !strings.Contains(last, ".")
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/static/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		case strings.HasPrefix(path, hooksPrefix), path == "/metrics", path == "/theme/":
			c.Response().Header().Set("Cache-Control", "no-store")
		default:
			// Preview content changes on every edit.
			c.Response().Header().Set("Cache-Control", "no-cache")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.Server.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.Server.CookieSecure,
	}
	return store
}

// Theme returns the theme stored in the visitor's session, or "".
func Theme(c echo.Context) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	theme, _ := sess.Values["theme"].(string)
	return theme
}

func setTheme(c echo.Context, theme string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["theme"] = theme
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
