package site

import "strings"

const titleSeparator = " - "

// ComposeMeta derives the head metadata for a content node.
func ComposeMeta(node ContentNode, cfg SiteConfig) MetaTagSet {
	meta := MetaTagSet{
		Title:       node.Title + titleSeparator + cfg.Title,
		Description: cfg.Subtitle,
		CardType:    CardSummary,
	}
	if d := strings.TrimSpace(node.Description); d != "" {
		meta.Description = node.Description
	}
	if node.HasImage() {
		meta.OGImage = JoinURL(cfg.URL, node.SocialImage.PublicURL)
		meta.CardType = CardSummaryLargeImage
	}
	return meta
}

// ComposePageMeta derives head metadata for pages that are not backed by a
// single node, such as the article index. An empty title yields the bare
// site title.
func ComposePageMeta(title, description string, cfg SiteConfig) MetaTagSet {
	meta := MetaTagSet{
		Title:       cfg.Title,
		Description: cfg.Subtitle,
		CardType:    CardSummary,
	}
	if title != "" {
		meta.Title = title + titleSeparator + cfg.Title
	}
	if strings.TrimSpace(description) != "" {
		meta.Description = description
	}
	return meta
}

// Tag is a single element of the document head. Name tags render as
// <meta name=...>, property tags as <meta property=...>. A tag with Name
// "title" renders as the <title> element.
type Tag struct {
	Name     string
	Property string
	Content  string
}

// HeadTags expands meta into the ordered list of head elements. canonical is
// the absolute URL of the page and ogType is "article" or "website".
//
// og:image and twitter:image fall back to the author photo when meta has no
// image. Both are omitted when no photo is configured either.
func HeadTags(meta MetaTagSet, canonical, ogType string, cfg SiteConfig) []Tag {
	image := meta.OGImage
	if image == "" && cfg.Author.Photo != "" {
		image = JoinURL(cfg.URL, cfg.Author.Photo)
	}

	tags := []Tag{
		{Name: "title", Content: meta.Title},
		{Name: "description", Content: meta.Description},
		{Property: "og:site_name", Content: cfg.Title},
		{Property: "og:title", Content: meta.Title},
		{Property: "og:description", Content: meta.Description},
	}
	if image != "" {
		tags = append(tags, Tag{Property: "og:image", Content: image})
	}
	if canonical != "" {
		tags = append(tags, Tag{Property: "og:url", Content: canonical})
	}
	tags = append(tags,
		Tag{Property: "og:type", Content: ogType},
		Tag{Name: "twitter:card", Content: string(meta.CardType)},
		Tag{Name: "twitter:title", Content: meta.Title},
		Tag{Name: "twitter:description", Content: meta.Description},
	)
	if image != "" {
		tags = append(tags, Tag{Name: "twitter:image", Content: image})
	}
	if handle := TwitterHandle(cfg); handle != "" {
		tags = append(tags, Tag{Name: "twitter:site", Content: "@" + handle})
	}
	return tags
}

// OGType returns the og:type for a template.
func OGType(t Template) string {
	switch t {
	case TemplatePost, TemplatePresentation:
		return "article"
	}
	return "website"
}

// TwitterHandle returns the author's twitter handle without a leading "@".
func TwitterHandle(cfg SiteConfig) string {
	return strings.TrimPrefix(strings.TrimSpace(cfg.Author.Contacts["twitter"]), "@")
}
