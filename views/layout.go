package views

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
	json "github.com/goccy/go-json"

	"github.com/eringen/folio/site"
)

// Layout wraps body in the document shell: head, sidebar and footer.
func Layout(p Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw("<!DOCTYPE html>")
		if p.Theme != "" {
			h.el("html", "lang", "en", "data-theme", p.Theme)
		} else {
			h.el("html", "lang", "en")
		}
		h.component(Head(p))
		h.raw("<body>")
		h.el("div", "class", "layout")
		h.component(Sidebar(p))
		h.el("main", "class", "content")
		h.component(body)
		h.end("main")
		h.end("div")
		h.component(footer(p.Site))
		h.el("script", "src", "/static/theme.js", "defer", "defer")
		h.end("script")
		h.raw("</body></html>")
		return h.err
	})
}

// Head renders the <head> element with every SEO and social tag.
func Head(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw("<head>")
		h.raw(`<meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		for _, t := range site.HeadTags(p.Meta, p.Canonical(), p.OGType, p.Site) {
			switch {
			case t.Name == "title":
				h.textEl("title", t.Content)
			case t.Property != "":
				h.raw("<meta")
				h.attr("property", t.Property)
				h.attr("content", t.Content)
				h.raw(">")
			default:
				h.raw("<meta")
				h.attr("name", t.Name)
				h.attr("content", t.Content)
				h.raw(">")
			}
		}
		if p.NoIndex {
			h.raw(`<meta name="robots" content="noindex">`)
		}
		if c := p.Canonical(); c != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", c)
			h.raw(">")
		}
		h.raw(`<link rel="alternate" type="application/rss+xml"`)
		h.attr("title", p.Site.Title)
		h.attr("href", site.JoinURL(p.Site.URL, p.Site.FeedPath))
		h.raw(">")
		h.raw(`<link rel="manifest" href="/manifest.webmanifest">`)
		if p.Site.ThemeColor != "" {
			h.raw(`<meta name="theme-color"`)
			h.attr("content", p.Site.ThemeColor)
			h.raw(">")
		}
		h.raw(`<link rel="stylesheet" href="/static/style.css">`)
		for _, ld := range p.JSONLD {
			h.raw(`<script type="application/ld+json">`, ld, `</script>`)
		}
		if id := p.Site.GoogleAnalyticsID; id != "" {
			h.component(gtag(id))
		}
		h.raw("</head>")
		return h.err
	})
}

func gtag(id string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		idJSON, err := json.Marshal(id)
		if err != nil {
			return err
		}
		h.raw(`<script async`)
		h.attr("src", "https://www.googletagmanager.com/gtag/js?id="+id)
		h.raw(`></script>`)
		h.raw(`<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config',`,
			string(idJSON), `,{anonymize_ip:true});</script>`)
		return h.err
	})
}

// Sidebar renders the author block, the menu and the contact links.
func Sidebar(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cfg := p.Site
		h := newWriter(ctx, w)
		h.el("aside", "class", "sidebar")

		h.el("div", "class", "author")
		if cfg.Author.Photo != "" {
			h.raw("<a href=\"/\">")
			h.el("img", "class", "author-photo", "src", cfg.Author.Photo, "alt", cfg.Author.Name, "width", "75", "height", "75")
			h.raw("</a>")
		}
		if p.Path == "/" {
			h.el("h1", "class", "author-title")
		} else {
			h.el("h2", "class", "author-title")
		}
		h.textEl("a", cfg.Author.Name, "href", "/")
		if p.Path == "/" {
			h.end("h1")
		} else {
			h.end("h2")
		}
		if cfg.Author.Bio != "" {
			h.textEl("p", cfg.Author.Bio, "class", "author-bio")
		}
		h.end("div")

		if len(cfg.Menu) > 0 {
			h.el("nav", "class", "menu")
			h.raw("<ul>")
			for _, item := range cfg.Menu {
				h.raw("<li>")
				h.textEl("a", item.Label, "href", item.Path, "class", classes("menu-link", activeClass(p.Path, item.Path)))
				h.raw("</li>")
			}
			h.raw("</ul>")
			h.end("nav")
		}

		if len(cfg.Author.Contacts) > 0 {
			h.el("ul", "class", "contacts")
			for _, platform := range sortedKeys(cfg.Author.Contacts) {
				href := site.ContactHref(platform, cfg.Author.Contacts[platform])
				if href == "" {
					continue
				}
				h.raw("<li>")
				h.textEl("a", platform, "href", href, "rel", "noopener noreferrer", "target", "_blank")
				h.raw("</li>")
			}
			h.end("ul")
		}

		h.component(themeToggle(p))
		if cfg.Copyright != "" {
			h.textEl("p", cfg.Copyright, "class", "copyright")
		}
		h.end("aside")
		return h.err
	})
}

func themeToggle(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		if p.CSRFToken == "" {
			h.raw(`<button type="button" class="theme-toggle" data-theme-toggle>Toggle theme</button>`)
			return h.err
		}
		h.el("form", "method", "post", "action", "/theme/", "class", "theme-form")
		h.el("input", "type", "hidden", "name", "_csrf", "value", p.CSRFToken)
		h.el("input", "type", "hidden", "name", "return", "value", p.Path)
		h.raw(`<button type="submit" class="theme-toggle">Toggle theme</button>`)
		h.end("form")
		return h.err
	})
}

func footer(cfg site.SiteConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.el("footer", "class", "footer")
		h.textEl("a", "RSS", "href", cfg.FeedPath)
		h.end("footer")
		return h.err
	})
}

func activeClass(current, target string) string {
	if target == "/" {
		if current == "/" || strings.HasPrefix(current, "/page/") {
			return "active"
		}
		return ""
	}
	if strings.HasPrefix(current, target) {
		return "active"
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
