package site

import (
	"net/url"
	"strings"

	"github.com/valyala/fasttemplate"
)

// ShareLink is a prefilled "share this post" URL for one platform.
type ShareLink struct {
	Platform string
	Label    string
	URL      string
}

var shareTemplates = []struct {
	platform string
	label    string
	tpl      *fasttemplate.Template
}{
	{"twitter", "X", fasttemplate.New("https://twitter.com/intent/tweet?text={title}&url={url}{via}{hashtags}", "{", "}")},
	{"linkedin", "LinkedIn", fasttemplate.New("https://www.linkedin.com/shareArticle?mini=true&url={url}&title={title}&summary={description}&source=LinkedIn", "{", "}")},
	{"reddit", "Reddit", fasttemplate.New("https://www.reddit.com/submit?url={url}&title={title}", "{", "}")},
	{"facebook", "Facebook", fasttemplate.New("https://www.facebook.com/sharer/sharer.php?u={url}", "{", "}")},
}

// ShareLinks returns share URLs for a page at pageURL. Every substituted
// value is query-escaped.
func ShareLinks(pageURL, title, description string, tags []string, cfg SiteConfig) []ShareLink {
	vars := map[string]any{
		"url":         url.QueryEscape(pageURL),
		"title":       url.QueryEscape(title),
		"description": url.QueryEscape(description),
		"via":         "",
		"hashtags":    "",
	}
	if handle := TwitterHandle(cfg); handle != "" {
		vars["via"] = "&via=" + url.QueryEscape(handle)
	}
	if hashtags := shareHashtags(tags); hashtags != "" {
		vars["hashtags"] = "&hashtags=" + url.QueryEscape(hashtags)
	}

	links := make([]ShareLink, 0, len(shareTemplates))
	for _, st := range shareTemplates {
		links = append(links, ShareLink{
			Platform: st.platform,
			Label:    st.label,
			URL:      st.tpl.ExecuteString(vars),
		})
	}
	return links
}

// shareHashtags turns tags into a comma separated hashtag list. Hashtags
// cannot contain spaces or dashes.
func shareHashtags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ",")
}

// Disqus carries the comment widget configuration for a page.
type Disqus struct {
	Shortname  string
	URL        string
	Identifier string
	Title      string
}

// DisqusFor returns the comment configuration for node, or nil when comments
// are disabled for the site.
func DisqusFor(node ContentNode, cfg SiteConfig) *Disqus {
	if cfg.DisqusShortname == "" {
		return nil
	}
	return &Disqus{
		Shortname:  cfg.DisqusShortname,
		URL:        JoinURL(cfg.URL, node.Slug),
		Identifier: node.Title,
		Title:      node.Title,
	}
}

// ContactHref returns the profile URL for a contact handle.
func ContactHref(platform, handle string) string {
	switch platform {
	case "twitter":
		return "https://www.twitter.com/" + handle
	case "github":
		return "https://github.com/" + handle
	case "linkedin":
		return "https://www.linkedin.com/in/" + handle
	case "instagram":
		return "https://www.instagram.com/" + handle
	case "email":
		return "mailto:" + handle
	case "telegram":
		return "https://t.me/" + handle
	case "rss", "website":
		return handle
	}
	return ""
}
