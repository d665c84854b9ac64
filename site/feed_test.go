package site

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(slug string, draft bool, day int) ContentNode {
	return ContentNode{
		Slug:        slug,
		Title:       "Title " + slug,
		Date:        time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		Description: "desc " + slug,
		BodyHTML:    "<p>" + slug + "</p>",
		Draft:       draft,
		Template:    TemplatePost,
	}
}

func TestBuildFeedLinkJoinsCanonicalURLAndSlug(t *testing.T) {
	cfg := SiteConfig{URL: "https://example.com/"}
	entries := BuildFeed([]ContentNode{post("/posts/a/", false, 1)}, cfg)

	require.Len(t, entries, 1)
	assert.Equal(t, "https://example.com/posts/a/", entries[0].Link)
	assert.Equal(t, entries[0].Link, entries[0].GUID)
}

func TestBuildFeedExcludesDrafts(t *testing.T) {
	cfg := SiteConfig{URL: "https://example.com"}
	nodeA := post("/posts/a/", true, 2)
	nodeB := post("/posts/b/", false, 1)

	entries := BuildFeed([]ContentNode{nodeA, nodeB}, cfg)
	require.Len(t, entries, 1)
	assert.Equal(t, "Title /posts/b/", entries[0].Title)

	// Drafts are dropped regardless of position.
	entries = BuildFeed([]ContentNode{nodeB, nodeA, nodeA}, cfg)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://example.com/posts/b/", entries[0].Link)
}

func TestBuildFeedKeepsOnlyPostsInInputOrder(t *testing.T) {
	cfg := SiteConfig{URL: "https://example.com"}
	talk := post("/presentations/t/", false, 5)
	talk.Template = TemplatePresentation
	nodes := []ContentNode{post("/posts/c/", false, 3), talk, post("/posts/a/", false, 1), post("/posts/b/", false, 2)}

	entries := BuildFeed(nodes, cfg)
	want := []FeedEntry{
		{Title: "Title /posts/c/", Link: "https://example.com/posts/c/", GUID: "https://example.com/posts/c/", PublishDate: nodes[0].Date, Description: "desc /posts/c/", ContentEncoded: "<p>/posts/c/</p>"},
		{Title: "Title /posts/a/", Link: "https://example.com/posts/a/", GUID: "https://example.com/posts/a/", PublishDate: nodes[2].Date, Description: "desc /posts/a/", ContentEncoded: "<p>/posts/a/</p>"},
		{Title: "Title /posts/b/", Link: "https://example.com/posts/b/", GUID: "https://example.com/posts/b/", PublishDate: nodes[3].Date, Description: "desc /posts/b/", ContentEncoded: "<p>/posts/b/</p>"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("BuildFeed mismatch (-want +got):\n%s", diff)
	}

	talks := BuildFeedFor(nodes, cfg, TemplatePresentation)
	require.Len(t, talks, 1)
	assert.Equal(t, "https://example.com/presentations/t/", talks[0].Link)
}

func TestBuildFeedIsDeterministic(t *testing.T) {
	cfg := SiteConfig{URL: "https://example.com"}
	nodes := []ContentNode{post("/posts/a/", false, 1), post("/posts/b/", true, 2)}
	if diff := cmp.Diff(BuildFeed(nodes, cfg), BuildFeed(nodes, cfg)); diff != "" {
		t.Errorf("BuildFeed not deterministic:\n%s", diff)
	}
}

func TestBuildFeedLimit(t *testing.T) {
	cfg := SiteConfig{URL: "https://example.com", FeedLimit: 2}
	nodes := []ContentNode{post("/a/", true, 4), post("/b/", false, 3), post("/c/", false, 2), post("/d/", false, 1)}
	entries := BuildFeed(nodes, cfg)
	require.Len(t, entries, 2)
	assert.Equal(t, "https://example.com/b/", entries[0].Link)
	assert.Equal(t, "https://example.com/c/", entries[1].Link)

	cfg.FeedLimit = NoFeedLimit
	assert.Len(t, BuildFeed(nodes, cfg), 3)
}

func TestBuildFeedMissingDescriptionStaysEmpty(t *testing.T) {
	n := post("/posts/a/", false, 1)
	n.Description = ""
	entries := BuildFeed([]ContentNode{n}, SiteConfig{URL: "https://example.com"})
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Description)
}

func TestPublished(t *testing.T) {
	nodes := []ContentNode{post("/a/", true, 1), post("/b/", false, 2)}
	got := Published(nodes)
	require.Len(t, got, 1)
	assert.Equal(t, "/b/", got[0].Slug)
}
