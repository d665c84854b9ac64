package site

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() SiteConfig {
	return SiteConfig{
		URL:      "https://example.com",
		Title:    "Jane Doe",
		Subtitle: "software-ish",
		Author: Author{
			Name:     "Jane Doe",
			Photo:    "/photo.png",
			Contacts: map[string]string{"twitter": "@_janedoe", "github": "janedoe"},
		},
	}
}

func TestComposeMetaTitleEndsWithSiteTitle(t *testing.T) {
	cfg := testConfig()
	for _, title := range []string{"Hello", "", "A - B"} {
		meta := ComposeMeta(ContentNode{Title: title}, cfg)
		assert.True(t, strings.HasSuffix(meta.Title, cfg.Title), "title %q", meta.Title)
	}
	assert.Equal(t, "Hello - Jane Doe", ComposeMeta(ContentNode{Title: "Hello"}, cfg).Title)
}

func TestComposeMetaDescriptionFallback(t *testing.T) {
	cfg := testConfig()

	meta := ComposeMeta(ContentNode{Title: "x", Description: "about x"}, cfg)
	assert.Equal(t, "about x", meta.Description)

	meta = ComposeMeta(ContentNode{Title: "x"}, cfg)
	assert.Equal(t, "software-ish", meta.Description)

	meta = ComposeMeta(ContentNode{Title: "x", Description: "   "}, cfg)
	assert.Equal(t, "software-ish", meta.Description)
}

func TestComposeMetaWithoutImage(t *testing.T) {
	meta := ComposeMeta(ContentNode{Title: "x"}, testConfig())
	assert.Equal(t, CardSummary, meta.CardType)
	assert.Empty(t, meta.OGImage)

	meta = ComposeMeta(ContentNode{Title: "x", SocialImage: &SocialImage{}}, testConfig())
	assert.Equal(t, CardSummary, meta.CardType)
	assert.Empty(t, meta.OGImage)
}

func TestComposeMetaWithImage(t *testing.T) {
	node := ContentNode{Title: "x", SocialImage: &SocialImage{PublicURL: "/img/a.png"}}
	meta := ComposeMeta(node, testConfig())
	assert.Equal(t, "https://example.com/img/a.png", meta.OGImage)
	assert.Equal(t, CardSummaryLargeImage, meta.CardType)
}

func TestComposeMetaIsIdempotent(t *testing.T) {
	cfg := testConfig()
	node := ContentNode{Title: "x", Tags: []string{"go"}, SocialImage: &SocialImage{PublicURL: "/a.png"}}
	first := ComposeMeta(node, cfg)
	second := ComposeMeta(node, cfg)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"go"}, node.Tags)
}

func TestComposePageMeta(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "Jane Doe", ComposePageMeta("", "", cfg).Title)
	assert.Equal(t, "Talks - Jane Doe", ComposePageMeta("Talks", "", cfg).Title)
	assert.Equal(t, "software-ish", ComposePageMeta("Talks", "", cfg).Description)
	assert.Equal(t, "my talks", ComposePageMeta("Talks", "my talks", cfg).Description)
}

func tagMap(tags []Tag) map[string]string {
	m := make(map[string]string)
	for _, tg := range tags {
		key := tg.Name
		if tg.Property != "" {
			key = tg.Property
		}
		m[key] = tg.Content
	}
	return m
}

func TestHeadTagsWithImage(t *testing.T) {
	cfg := testConfig()
	node := ContentNode{Title: "Post", Slug: "/posts/post/", Template: TemplatePost, SocialImage: &SocialImage{PublicURL: "/img/a.png"}}
	meta := ComposeMeta(node, cfg)
	tags := tagMap(HeadTags(meta, JoinURL(cfg.URL, node.Slug), OGType(node.Template), cfg))

	assert.Equal(t, "Post - Jane Doe", tags["title"])
	assert.Equal(t, "Jane Doe", tags["og:site_name"])
	assert.Equal(t, "article", tags["og:type"])
	assert.Equal(t, "https://example.com/posts/post/", tags["og:url"])
	assert.Equal(t, "https://example.com/img/a.png", tags["og:image"])
	assert.Equal(t, "https://example.com/img/a.png", tags["twitter:image"])
	assert.Equal(t, "summary_large_image", tags["twitter:card"])
	assert.Equal(t, "@_janedoe", tags["twitter:site"])
}

func TestHeadTagsFallBackToAuthorPhoto(t *testing.T) {
	cfg := testConfig()
	meta := ComposeMeta(ContentNode{Title: "Post"}, cfg)
	tags := tagMap(HeadTags(meta, "", "website", cfg))

	assert.Equal(t, "https://example.com/photo.png", tags["og:image"])
	assert.Equal(t, "https://example.com/photo.png", tags["twitter:image"])
	assert.Equal(t, "summary", tags["twitter:card"])
	_, hasURL := tags["og:url"]
	assert.False(t, hasURL)
}

func TestHeadTagsWithoutAnyImage(t *testing.T) {
	cfg := testConfig()
	cfg.Author.Photo = ""
	cfg.Author.Contacts = nil
	tags := tagMap(HeadTags(ComposeMeta(ContentNode{Title: "Post"}, cfg), "", "website", cfg))

	require.NotContains(t, tags, "og:image")
	require.NotContains(t, tags, "twitter:image")
	require.NotContains(t, tags, "twitter:site")
}

func TestOGType(t *testing.T) {
	assert.Equal(t, "article", OGType(TemplatePost))
	assert.Equal(t, "article", OGType(TemplatePresentation))
	assert.Equal(t, "website", OGType(TemplatePage))
}
