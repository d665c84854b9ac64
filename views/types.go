package views

import "github.com/eringen/folio/site"

// Page carries everything the layout needs to render the document head and
// the sidebar.
type Page struct {
	Site      site.SiteConfig
	Meta      site.MetaTagSet
	Path      string // Site-relative path of the page
	OGType    string // "website" or "article"
	JSONLD    []string
	Theme     string // "light", "dark" or "" for the visitor's preference
	CSRFToken string // Set by the preview server; enables the theme form
	NoIndex   bool
}

// Canonical returns the absolute URL of the page.
func (p Page) Canonical() string {
	if p.Path == "" {
		return ""
	}
	return site.JoinURL(p.Site.URL, p.Path)
}

// Article is a post or presentation with its surrounding widgets.
type Article struct {
	Node    site.ContentNode
	Share   []site.ShareLink
	Disqus  *site.Disqus
	Related []site.ContentNode
}

// Pager describes the position of a listing page in a paginated sequence.
type Pager struct {
	Current int // 1-based
	Total   int
}

// HasPrev reports whether a newer page exists.
func (p Pager) HasPrev() bool { return p.Current > 1 }

// HasNext reports whether an older page exists.
func (p Pager) HasNext() bool { return p.Current < p.Total }
