package folio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/site"
)

// testFiles is a small site: five published posts (two index pages), a
// draft, a presentation with a custom slug and two pages.
var testFiles = map[string]string{
	"posts/first.md": `---
title: First post
date: 2023-01-05
category: Programming
tags: [Go, Web]
description: The very first post.
---
Hello from the first post.
`,
	"posts/second/index.md": `---
title: Second post
date: "2023-02-10T08:00:00Z"
tags: [Go]
socialImage: cover.png
---
Look at this:

![diagram](diagram.png)

Visit [Go](https://go.dev).
`,
	"posts/third.md": `---
title: Third post
date: 2023-03-01
tags: [Life]
---
Third.
`,
	"posts/fourth.md": `---
title: Fourth post
date: 2023-04-01
---
Fourth.
`,
	"posts/fifth.md": `---
title: Fifth post
date: 2023-05-01
---
Fifth.
`,
	"posts/secret.md": `---
title: Secret post
date: 2023-06-01
draft: true
tags: [Hidden]
---
Not yet.
`,
	"presentations/talk.md": `---
title: A talk
date: 2023-04-15
slug: /talks//a-talk
description: Slides from a meetup.
---
Slides here.
`,
	"pages/about.md": `---
title: About me
---
I write things.
`,
	"pages/presentations.md": `---
title: Presentations
description: Talks I gave.
---
Talks I gave over the years.
`,
}

func writePNG(t *testing.T, p string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func testConfig(root string) Config {
	return Config{
		Site: site.SiteConfig{
			URL:             "https://example.com",
			Title:           "Jane's notes",
			Subtitle:        "Notes on software",
			PostsPerPage:    4,
			DisqusShortname: "janes-notes",
			Menu:            []site.MenuItem{{Label: "Articles", Path: "/"}, {Label: "About", Path: "/pages/about/"}},
			Author: site.Author{
				Name:     "Jane Doe",
				Photo:    "/photo.jpg",
				Contacts: map[string]string{"twitter": "jane", "github": "jane"},
			},
		},
		Build: BuildConfig{
			ContentDir:   filepath.Join(root, "content"),
			OutputDir:    filepath.Join(root, "public"),
			StaticDir:    filepath.Join(root, "static"),
			DatabasePath: filepath.Join(root, "data", "folio.db"),
		},
		Server: ServerConfig{
			SessionSecret: "test-secret",
			RebuildToken:  "hook-token",
		},
	}
}

// newTestApp writes the test site under a temp dir and returns an app for it.
func newTestApp(t *testing.T) *App {
	t.Helper()
	root := t.TempDir()
	for name, body := range testFiles {
		p := filepath.Join(root, "content", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	writePNG(t, filepath.Join(root, "content", "posts", "second", "diagram.png"), 1200, 600)
	writePNG(t, filepath.Join(root, "content", "posts", "second", "cover.png"), 400, 200)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "static", "CNAME"), []byte("example.com\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "static", "photo.jpg"), []byte("jpeg"), 0o644))

	app := New(testConfig(root))
	t.Cleanup(func() { app.Close() })
	return app
}
