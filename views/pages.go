package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	json "github.com/goccy/go-json"

	"github.com/eringen/folio/site"
)

const dateLayout = "2 Jan 2006"

// IndexPage renders one page of the article listing.
func IndexPage(p Page, posts []site.ContentNode, pager Pager) templ.Component {
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.component(Feed(posts))
		h.component(Pagination(pager))
		return h.err
	}))
}

// ListingPage renders a titled list of nodes, used for tags and
// presentations. introHTML is rendered verbatim above the list.
func ListingPage(p Page, heading, introHTML string, nodes []site.ContentNode) templ.Component {
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.textEl("h1", heading, "class", "page-title")
		if introHTML != "" {
			h.el("div", "class", "page-body")
			h.raw(introHTML)
			h.end("div")
		}
		if len(nodes) == 0 {
			h.textEl("p", "Nothing here yet.", "class", "empty")
		}
		h.component(Feed(nodes))
		return h.err
	}))
}

// TagsPage renders the list of every tag with a link to its listing.
func TagsPage(p Page, tags []string) templ.Component {
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.textEl("h1", "Tags", "class", "page-title")
		h.el("ul", "class", "tags-list")
		for _, t := range tags {
			h.raw("<li>")
			h.textEl("a", t, "href", site.TagPath(t))
			h.raw("</li>")
		}
		h.end("ul")
		return h.err
	}))
}

// Feed renders a list of node summaries.
func Feed(nodes []site.ContentNode) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.el("div", "class", "feed")
		for _, n := range nodes {
			h.el("article", "class", "feed-item")
			h.el("div", "class", "feed-meta")
			if !n.Date.IsZero() {
				h.textEl("time", n.Date.Format(dateLayout), "datetime", n.Date.Format("2006-01-02"))
			}
			if n.Category != "" {
				h.textEl("span", n.Category, "class", "feed-category")
			}
			h.end("div")
			h.el("h2", "class", "feed-title")
			h.textEl("a", n.Title, "href", n.Slug)
			h.end("h2")
			summary := n.Description
			if summary == "" {
				summary = n.Excerpt
			}
			if summary != "" {
				h.textEl("p", summary, "class", "feed-description")
			}
			h.textEl("a", "Read", "href", n.Slug, "class", "feed-readmore")
			h.end("article")
		}
		h.end("div")
		return h.err
	})
}

// Pagination renders newer/older links for a paginated listing.
func Pagination(pager Pager) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if pager.Total <= 1 {
			return nil
		}
		h := newWriter(ctx, w)
		h.el("nav", "class", "pagination")
		if pager.HasPrev() {
			h.textEl("a", "← Newer", "href", site.PagePath(pager.Current-1), "rel", "prev")
		}
		h.textEl("span", "Page "+strconv.Itoa(pager.Current)+" of "+strconv.Itoa(pager.Total), "class", "pagination-status")
		if pager.HasNext() {
			h.textEl("a", "Older →", "href", site.PagePath(pager.Current+1), "rel", "next")
		}
		h.end("nav")
		return h.err
	})
}

// ArticlePage renders a post or presentation with tags, share links,
// comments and related posts.
func ArticlePage(p Page, a Article) templ.Component {
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		n := a.Node
		h := newWriter(ctx, w)
		h.el("article", "class", classes("post", "post-"+string(n.Template)))
		h.textEl("h1", n.Title, "class", "post-title")
		h.el("div", "class", "post-body")
		h.raw(n.BodyHTML)
		h.end("div")

		h.el("div", "class", "post-footer")
		if !n.Date.IsZero() {
			h.el("p", "class", "post-date")
			h.text("Published on ")
			h.textEl("time", n.Date.Format(dateLayout), "datetime", n.Date.Format("2006-01-02"))
			if name := p.Site.Author.Name; name != "" {
				h.text(" by " + name)
			}
			h.end("p")
		}
		if len(n.Tags) > 0 {
			h.el("ul", "class", "post-tags")
			for _, t := range n.Tags {
				h.raw("<li>")
				h.textEl("a", t, "href", site.TagPath(t))
				h.raw("</li>")
			}
			h.end("ul")
		}
		h.end("div")

		h.component(ShareBar(a.Share))
		h.end("article")

		if len(a.Related) > 0 {
			h.el("section", "class", "related")
			h.textEl("h2", "Related")
			h.el("ul")
			for _, r := range a.Related {
				h.raw("<li>")
				h.textEl("a", r.Title, "href", r.Slug)
				h.raw("</li>")
			}
			h.end("ul")
			h.end("section")
		}
		h.component(Comments(a.Disqus))
		return h.err
	}))
}

// StandalonePage renders a page node without article chrome.
func StandalonePage(p Page, n site.ContentNode) templ.Component {
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.el("div", "class", "page")
		h.textEl("h1", n.Title, "class", "page-title")
		h.el("div", "class", "page-body")
		h.raw(n.BodyHTML)
		h.end("div")
		h.end("div")
		return h.err
	}))
}

// NotFoundPage renders the 404 page.
func NotFoundPage(p Page) templ.Component {
	return Layout(p, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.el("div", "class", "page")
		h.textEl("h1", "NOT FOUND", "class", "page-title")
		h.textEl("p", "You just hit a route that doesn't exist.")
		h.end("div")
		return h.err
	}))
}

// ShareBar renders the social share links.
func ShareBar(links []site.ShareLink) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(links) == 0 {
			return nil
		}
		h := newWriter(ctx, w)
		h.el("ul", "class", "share")
		for _, l := range links {
			h.raw("<li>")
			h.textEl("a", l.Label, "href", l.URL, "class", "share-"+l.Platform,
				"target", "_blank", "rel", "nofollow noopener noreferrer")
			h.raw("</li>")
		}
		h.end("ul")
		return h.err
	})
}

// Comments renders the Disqus embed. A nil config renders nothing.
func Comments(d *site.Disqus) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if d == nil {
			return nil
		}
		cfg, err := json.Marshal(map[string]string{
			"url":        d.URL,
			"identifier": d.Identifier,
			"title":      d.Title,
		})
		if err != nil {
			return err
		}
		h := newWriter(ctx, w)
		h.raw(`<div id="disqus_thread" class="comments"></div>`)
		h.raw(`<script>var disqus_config=function(){var c=`, string(cfg),
			`;this.page.url=c.url;this.page.identifier=c.identifier;this.page.title=c.title;};`)
		h.raw(`(function(){var s=document.createElement('script');s.src='https://' + `)
		shortname, err := json.Marshal(d.Shortname)
		if err != nil {
			return err
		}
		h.raw(string(shortname), ` + '.disqus.com/embed.js';s.setAttribute('data-timestamp',+new Date());(document.head||document.body).appendChild(s);})();</script>`)
		return h.err
	})
}
