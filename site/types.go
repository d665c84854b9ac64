// Package site holds the content model and the pure functions that turn
// content nodes and site settings into page metadata, feed entries, share
// links and structured data. Nothing in this package performs I/O.
package site

import "time"

// NoFeedLimit as SiteConfig.FeedLimit puts every post in the feed.
const NoFeedLimit = -1

// SiteConfig holds site-wide settings. It is loaded once at startup and
// treated as immutable afterwards.
type SiteConfig struct {
	URL               string     `yaml:"url"`        // Canonical URL, e.g. "https://example.com"
	PathPrefix        string     `yaml:"pathPrefix"` // Default "/"
	Title             string     `yaml:"title"`
	Subtitle          string     `yaml:"subtitle"`
	Copyright         string     `yaml:"copyright"`
	DisqusShortname   string     `yaml:"disqusShortname"`
	PostsPerPage      int        `yaml:"postsPerPage"`
	GoogleAnalyticsID string     `yaml:"googleAnalyticsId"`
	FeedLimit         int        `yaml:"feedLimit"` // Default 1000, NoFeedLimit for all posts
	FeedPath          string     `yaml:"feedPath"`  // Default "/rss.xml"
	ThemeColor        string     `yaml:"themeColor"`
	BackgroundColor   string     `yaml:"backgroundColor"`
	Menu              []MenuItem `yaml:"menu"`
	Author            Author     `yaml:"author"`
}

// MenuItem is one entry of the sidebar navigation.
type MenuItem struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

// Author describes the site owner.
type Author struct {
	Name     string            `yaml:"name"`
	Photo    string            `yaml:"photo"` // Site-relative path, e.g. "/photo.png"
	Bio      string            `yaml:"bio"`
	Contacts map[string]string `yaml:"contacts"` // platform -> handle
}

// Template is the kind of content a node renders as.
type Template string

const (
	TemplatePost         Template = "post"
	TemplatePresentation Template = "presentation"
	TemplatePage         Template = "page"
)

// Valid reports whether t is a known template.
func (t Template) Valid() bool {
	switch t {
	case TemplatePost, TemplatePresentation, TemplatePage:
		return true
	}
	return false
}

// SocialImage is the optional preview image attached to a node.
type SocialImage struct {
	PublicURL string
}

// ContentNode is one unit of Markdown-derived content with its rendered body.
type ContentNode struct {
	Slug        string // Site-relative path with leading and trailing slash
	Title       string
	Date        time.Time
	Description string
	Tags        []string
	Category    string
	BodyHTML    string
	Excerpt     string // Plain text lead of the body
	Draft       bool
	Template    Template
	SocialImage *SocialImage
	SourcePath  string
}

// HasImage reports whether the node carries a usable social image.
func (n ContentNode) HasImage() bool {
	return n.SocialImage != nil && n.SocialImage.PublicURL != ""
}

// FeedEntry is one item of the syndication feed.
type FeedEntry struct {
	Title          string
	Link           string
	GUID           string
	PublishDate    time.Time
	Description    string
	ContentEncoded string
}

// CardType is the twitter:card value.
type CardType string

const (
	CardSummary           CardType = "summary"
	CardSummaryLargeImage CardType = "summary_large_image"
)

// MetaTagSet is the per-page metadata computed for the document head.
type MetaTagSet struct {
	Title       string
	Description string
	OGImage     string // Absolute URL, empty when the node has no image
	CardType    CardType
}
