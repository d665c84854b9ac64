package folio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio/site"
	"github.com/eringen/folio/views"
)

// presentationsPath is the listing of every presentation. A page node with
// this slug supplies the intro text above the list.
const presentationsPath = "/pages/presentations/"

// pageOpts carries per-request view state that only the preview server sets.
type pageOpts struct {
	Theme     string
	CSRFToken string
}

// pages assembles view models from a Repository. The static build uses the
// Store directly; the preview server goes through the NodeCache.
type pages struct {
	cfg  site.SiteConfig
	repo Repository
}

func (p pages) base(path, ogType string, meta site.MetaTagSet, opts pageOpts) views.Page {
	return views.Page{
		Site:      p.cfg,
		Meta:      meta,
		Path:      path,
		OGType:    ogType,
		Theme:     opts.Theme,
		CSRFToken: opts.CSRFToken,
	}
}

func (p pages) posts(ctx context.Context) ([]site.ContentNode, error) {
	return p.repo.ListContentNodes(ctx, Filter{Template: site.TemplatePost}, NewestFirst)
}

// index renders page n (1-based) of the article listing.
func (p pages) index(ctx context.Context, n int, opts pageOpts) (templ.Component, error) {
	posts, err := p.posts(ctx)
	if err != nil {
		return nil, err
	}
	chunks := site.Paginate(posts, p.cfg.PostsPerPage)
	if n < 1 || n > len(chunks) {
		return nil, ErrNotFound
	}
	page := p.base(site.PagePath(n), "website", site.ComposePageMeta("", "", p.cfg), opts)
	page.JSONLD = []string{site.WebsiteJsonLD(p.cfg)}
	return views.IndexPage(page, chunks[n-1], views.Pager{Current: n, Total: len(chunks)}), nil
}

// node renders the page for slug. Drafts are only served when includeDrafts
// is set.
func (p pages) node(ctx context.Context, slug string, includeDrafts bool, opts pageOpts) (templ.Component, error) {
	n, err := p.repo.GetContentNode(ctx, slug)
	if err != nil {
		return nil, err
	}
	if n.Draft && !includeDrafts {
		return nil, ErrNotFound
	}
	if n.Slug == presentationsPath {
		return p.presentations(ctx, opts)
	}
	return p.render(ctx, n, opts)
}

func (p pages) render(ctx context.Context, n site.ContentNode, opts pageOpts) (templ.Component, error) {
	page := p.base(n.Slug, site.OGType(n.Template), site.ComposeMeta(n, p.cfg), opts)
	if n.Template == site.TemplatePage {
		return views.StandalonePage(page, n), nil
	}

	page.JSONLD = []string{site.BlogPostingJsonLD(n, p.cfg)}
	siblings, err := p.repo.ListContentNodes(ctx, Filter{Template: n.Template}, NewestFirst)
	if err != nil {
		return nil, err
	}
	canonical := site.JoinURL(p.cfg.URL, n.Slug)
	return views.ArticlePage(page, views.Article{
		Node:    n,
		Share:   site.ShareLinks(canonical, n.Title, page.Meta.Description, n.Tags, p.cfg),
		Disqus:  site.DisqusFor(n, p.cfg),
		Related: site.FilterRelated(n, siblings),
	}), nil
}

// presentations renders the presentation listing, headed by the page node
// at presentationsPath when one exists.
func (p pages) presentations(ctx context.Context, opts pageOpts) (templ.Component, error) {
	list, err := p.repo.ListContentNodes(ctx, Filter{Template: site.TemplatePresentation}, NewestFirst)
	if err != nil {
		return nil, err
	}
	title, description := "Presentations", ""
	intro, err := p.repo.GetContentNode(ctx, presentationsPath)
	switch {
	case err == nil && !intro.Draft:
		title, description = intro.Title, intro.Description
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, err
	default:
		intro = site.ContentNode{}
	}
	page := p.base(presentationsPath, "website", site.ComposePageMeta(title, description, p.cfg), opts)
	return views.ListingPage(page, title, intro.BodyHTML, list), nil
}

// tag renders the listing of posts carrying the tag whose slug is tagSlug.
func (p pages) tag(ctx context.Context, tagSlug string, opts pageOpts) (templ.Component, error) {
	posts, err := p.posts(ctx)
	if err != nil {
		return nil, err
	}
	name := ""
	for _, t := range site.CollectTags(posts) {
		if site.TagSlug(t) == tagSlug {
			name = t
			break
		}
	}
	if name == "" {
		return nil, ErrNotFound
	}
	tagged, err := p.repo.ListContentNodes(ctx, Filter{Template: site.TemplatePost, Tag: name}, NewestFirst)
	if err != nil {
		return nil, err
	}
	heading := fmt.Sprintf("All posts tagged as %q", name)
	page := p.base(site.TagPath(name), "website", site.ComposePageMeta(heading, "", p.cfg), opts)
	return views.ListingPage(page, heading, "", tagged), nil
}

// tags renders the index of every tag.
func (p pages) tags(ctx context.Context, opts pageOpts) (templ.Component, error) {
	posts, err := p.posts(ctx)
	if err != nil {
		return nil, err
	}
	page := p.base("/tags/", "website", site.ComposePageMeta("Tags", "", p.cfg), opts)
	return views.TagsPage(page, site.CollectTags(posts)), nil
}

// route is one HTML page of the site.
type route struct {
	kind    string
	path    string
	lastMod time.Time
	render  func(context.Context, pageOpts) (templ.Component, error)
}

// routes lists every published page: the index pages, the nodes, the
// presentation listing and the tag listings. Two tags that would share a
// listing path are an error.
func (p pages) routes(ctx context.Context) ([]route, error) {
	posts, err := p.posts(ctx)
	if err != nil {
		return nil, err
	}
	var rs []route
	total := len(site.Paginate(posts, p.cfg.PostsPerPage))
	for n := 1; n <= total; n++ {
		rs = append(rs, route{kind: "index", path: site.PagePath(n), render: func(ctx context.Context, opts pageOpts) (templ.Component, error) {
			return p.index(ctx, n, opts)
		}})
	}

	nodes, err := p.repo.ListContentNodes(ctx, Filter{}, NewestFirst)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Slug == presentationsPath {
			continue
		}
		rs = append(rs, route{kind: string(n.Template), path: n.Slug, lastMod: n.Date, render: func(ctx context.Context, opts pageOpts) (templ.Component, error) {
			return p.render(ctx, n, opts)
		}})
	}
	rs = append(rs, route{kind: "listing", path: presentationsPath, render: p.presentations})

	owner := make(map[string]string)
	for _, t := range site.CollectTags(posts) {
		slug := site.TagSlug(t)
		if other, ok := owner[slug]; ok {
			return nil, fmt.Errorf("tags %q and %q share the listing %s", other, t, site.TagPath(t))
		}
		owner[slug] = t
		rs = append(rs, route{kind: "tag", path: site.TagPath(t), render: func(ctx context.Context, opts pageOpts) (templ.Component, error) {
			return p.tag(ctx, slug, opts)
		}})
	}
	rs = append(rs, route{kind: "listing", path: "/tags/", render: p.tags})
	return rs, nil
}

func (p pages) notFound(opts pageOpts) templ.Component {
	page := p.base("", "website", site.ComposePageMeta("Not found", "", p.cfg), opts)
	page.NoIndex = true
	return views.NotFoundPage(page)
}
