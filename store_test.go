package folio

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/site"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixtureNodes() []site.ContentNode {
	return []site.ContentNode{
		{
			Slug: "/posts/go-tips/", Title: "Go tips", Date: mustDate("2023-03-01"),
			Tags: []string{"Go", "Tooling"}, Category: "Programming", Template: site.TemplatePost,
			BodyHTML: "<p>tips</p>", Excerpt: "tips", Description: "Some tips",
			SocialImage: &site.SocialImage{PublicURL: "/posts/go-tips/cover.png"},
		},
		{
			Slug: "/posts/hello/", Title: "hello", Date: mustDate("2022-01-10"),
			Tags: []string{"Meta"}, Template: site.TemplatePost, BodyHTML: "<p>hi</p>",
		},
		{
			Slug: "/posts/draft/", Title: "Draft", Date: mustDate("2024-01-01"),
			Tags: []string{"go"}, Template: site.TemplatePost, Draft: true,
		},
		{
			Slug: "/presentations/talk/", Title: "A talk", Date: mustDate("2023-06-15"),
			Tags: []string{"go"}, Template: site.TemplatePresentation,
		},
		{
			Slug: "/pages/about/", Title: "About", Template: site.TemplatePage,
		},
		{
			Slug: "/posts/uber/", Title: "Über alles", Date: mustDate("2021-05-05"),
			Tags: []string{"Über", "C++"}, Template: site.TemplatePost, BodyHTML: "<p>ü</p>",
		},
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.ReplaceAll(context.Background(), fixtureNodes()))
	return s
}

func slugsOf(nodes []site.ContentNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Slug
	}
	return out
}

// repositoryCases run against both the Store and the NodeCache so the two
// stay interchangeable.
var repositoryCases = []struct {
	name   string
	filter Filter
	sort   Sort
	want   []string
}{
	{
		name: "published newest first",
		sort: NewestFirst,
		want: []string{"/presentations/talk/", "/posts/go-tips/", "/posts/hello/", "/posts/uber/", "/pages/about/"},
	},
	{
		name:   "drafts included",
		filter: Filter{IncludeDrafts: true, Template: site.TemplatePost},
		sort:   NewestFirst,
		want:   []string{"/posts/draft/", "/posts/go-tips/", "/posts/hello/", "/posts/uber/"},
	},
	{
		name:   "posts oldest first",
		filter: Filter{Template: site.TemplatePost},
		sort:   Sort{Field: SortByDate},
		want:   []string{"/posts/uber/", "/posts/hello/", "/posts/go-tips/"},
	},
	{
		name:   "by title ignoring case",
		filter: Filter{Template: site.TemplatePost},
		sort:   Sort{Field: SortByTitle},
		want:   []string{"/posts/go-tips/", "/posts/hello/", "/posts/uber/"},
	},
	{
		name:   "tag match is case insensitive",
		filter: Filter{Tag: "GO"},
		sort:   NewestFirst,
		want:   []string{"/presentations/talk/", "/posts/go-tips/"},
	},
	{
		name:   "tag match folds non-ASCII case",
		filter: Filter{Tag: "üBER"},
		sort:   NewestFirst,
		want:   []string{"/posts/uber/"},
	},
	{
		name:   "tag with punctuation",
		filter: Filter{Tag: "c++"},
		sort:   NewestFirst,
		want:   []string{"/posts/uber/"},
	},
	{
		name:   "limit",
		filter: Filter{Template: site.TemplatePost, Limit: 1},
		sort:   NewestFirst,
		want:   []string{"/posts/go-tips/"},
	},
	{
		name:   "no match",
		filter: Filter{Tag: "rust"},
		sort:   NewestFirst,
		want:   []string{},
	},
}

func TestStoreListContentNodes(t *testing.T) {
	s := setupTestStore(t)
	for _, tc := range repositoryCases {
		t.Run(tc.name, func(t *testing.T) {
			nodes, err := s.ListContentNodes(context.Background(), tc.filter, tc.sort)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, slugsOf(nodes)); diff != "" {
				t.Errorf("slugs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreRoundTripsNode(t *testing.T) {
	s := setupTestStore(t)
	got, err := s.GetContentNode(context.Background(), "posts/go-tips")
	require.NoError(t, err)
	want := fixtureNodes()[0]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("node mismatch (-want +got):\n%s", diff)
	}

	page, err := s.GetContentNode(context.Background(), "/pages/about/")
	require.NoError(t, err)
	assert.True(t, page.Date.IsZero())
	assert.Nil(t, page.SocialImage)
	assert.Nil(t, page.Tags)
}

func TestStoreGetDraft(t *testing.T) {
	s := setupTestStore(t)
	n, err := s.GetContentNode(context.Background(), "/posts/draft/")
	require.NoError(t, err)
	assert.True(t, n.Draft)
}

func TestStoreGetMissing(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetContentNode(context.Background(), "/posts/nope/")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreReplaceAll(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.ReplaceAll(ctx, fixtureNodes()[:1]))
	nodes, err := s.ListContentNodes(ctx, Filter{IncludeDrafts: true}, NewestFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"/posts/go-tips/"}, slugsOf(nodes))

	dup := []site.ContentNode{fixtureNodes()[0], fixtureNodes()[0]}
	require.Error(t, s.ReplaceAll(ctx, dup))
	// A failed replace leaves the previous content in place.
	nodes, err = s.ListContentNodes(ctx, Filter{IncludeDrafts: true}, NewestFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"/posts/go-tips/"}, slugsOf(nodes))
}

func TestJoinParseTags(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"go"}, ",go,"},
		{[]string{" go ", "", "web,dev"}, ",go,webdev,"},
	}
	for _, tt := range tests {
		got := JoinTags(tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, []string{"go", "web"}, ParseTags(",go,web,"))
	assert.Nil(t, ParseTags(""))
	assert.Nil(t, ParseTags(",,"))
}

func TestStoreUpgradesOlderIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE nodes (
    slug TEXT PRIMARY KEY, title TEXT NOT NULL, date TEXT NOT NULL,
    description TEXT NOT NULL, tags TEXT NOT NULL, category TEXT NOT NULL,
    body_html TEXT NOT NULL, excerpt TEXT NOT NULL, draft INTEGER NOT NULL DEFAULT 0,
    template TEXT NOT NULL, social_image TEXT NOT NULL, source_path TEXT NOT NULL
)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.ReplaceAll(context.Background(), fixtureNodes()))
	nodes, err := s.ListContentNodes(context.Background(), Filter{Tag: "über"}, NewestFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"/posts/uber/"}, slugsOf(nodes))
}
