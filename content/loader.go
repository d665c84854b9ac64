// Package content turns a directory of Markdown files with YAML frontmatter
// into content nodes ready for indexing and rendering.
package content

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/site"
)

// ErrMalformed marks a content file that lacks a required field.
var ErrMalformed = errors.New("malformed content node")

const excerptLength = 280

// Asset is a file referenced by a document that must be published next to it.
type Asset struct {
	Source string // Absolute path on disk
	Target string // Site-relative path
}

// Document is a loaded content node plus the files it references.
type Document struct {
	Node   site.ContentNode
	Assets []Asset
}

// Loader reads content files from Dir.
type Loader struct {
	Dir      string
	Renderer *markdown.Renderer
	Logger   *zap.Logger

	policy *bluemonday.Policy
}

// NewLoader returns a Loader for dir. Links are classified as external
// relative to siteURL.
func NewLoader(dir, siteURL string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		Dir:      dir,
		Renderer: markdown.NewRenderer(siteURL),
		Logger:   logger,
		policy:   bluemonday.StrictPolicy(),
	}
}

// Load reads every Markdown file under the content directory. Documents are
// returned sorted by date descending, then slug. Any malformed file fails the
// whole load.
func (l *Loader) Load(ctx context.Context) ([]Document, error) {
	var docs []Document
	slugs := make(map[string]string)

	err := filepath.WalkDir(l.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != l.Dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(d.Name()) {
			return nil
		}
		doc, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		if prev, dup := slugs[doc.Node.Slug]; dup {
			return fmt.Errorf("%w: %s: slug %q already used by %s", ErrMalformed, p, doc.Node.Slug, prev)
		}
		slugs[doc.Node.Slug] = p
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load content from %s: %w", l.Dir, err)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i].Node, docs[j].Node
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Slug < b.Slug
	})
	l.Logger.Info("content loaded", zap.String("dir", l.Dir), zap.Int("documents", len(docs)))
	return docs, nil
}

// LoadFile reads and renders a single content file.
func (l *Loader) LoadFile(p string) (Document, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return Document{}, err
	}
	fmRaw, body, _, err := Split(raw)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", p, err)
	}
	fm, err := ParseFrontmatter(fmRaw)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", p, err)
	}

	rel, err := filepath.Rel(l.Dir, p)
	if err != nil {
		return Document{}, err
	}
	rel = filepath.ToSlash(rel)

	node := site.ContentNode{
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		Tags:        cleanTags(fm.Tags),
		Category:    strings.TrimSpace(fm.Category),
		Draft:       fm.Draft,
		Template:    templateFor(fm.Template, rel),
		SourcePath:  p,
	}
	if node.Title == "" {
		return Document{}, fmt.Errorf("%w: %s: missing title", ErrMalformed, p)
	}
	if !node.Template.Valid() {
		return Document{}, fmt.Errorf("%w: %s: unknown template %q", ErrMalformed, p, fm.Template)
	}
	if fm.Date != "" {
		if node.Date, err = ParseDate(fm.Date); err != nil {
			return Document{}, fmt.Errorf("%w: %s: %v", ErrMalformed, p, err)
		}
	} else if node.Template != site.TemplatePage {
		return Document{}, fmt.Errorf("%w: %s: missing date", ErrMalformed, p)
	}

	node.Slug = site.CleanSlug(fm.Slug)
	if node.Slug == "" {
		node.Slug = slugFor(rel, node.Template)
	}

	res, err := l.Renderer.Render(body)
	if err != nil {
		return Document{}, fmt.Errorf("%s: render markdown: %w", p, err)
	}
	node.BodyHTML = res.HTML
	node.Excerpt = l.excerpt(res.HTML)

	doc := Document{Node: node}
	srcDir := filepath.Dir(p)
	for _, img := range res.Images {
		if strings.HasPrefix(img, "/") {
			continue
		}
		doc.Assets = append(doc.Assets, l.asset(srcDir, node.Slug, img))
	}
	if fm.SocialImage != "" {
		publicURL := fm.SocialImage
		if !strings.HasPrefix(publicURL, "/") && !strings.Contains(publicURL, "://") {
			a := l.asset(srcDir, node.Slug, publicURL)
			doc.Assets = appendAsset(doc.Assets, a)
			publicURL = a.Target
		}
		doc.Node.SocialImage = &site.SocialImage{PublicURL: publicURL}
	}
	return doc, nil
}

func (l *Loader) asset(srcDir, slug, rel string) Asset {
	return Asset{
		Source: filepath.Join(srcDir, filepath.FromSlash(rel)),
		Target: path.Join(slug, rel),
	}
}

func appendAsset(assets []Asset, a Asset) []Asset {
	for _, existing := range assets {
		if existing.Target == a.Target {
			return assets
		}
	}
	return append(assets, a)
}

// excerpt strips markup from rendered HTML and trims it to a word boundary.
func (l *Loader) excerpt(bodyHTML string) string {
	text := html.UnescapeString(l.policy.Sanitize(bodyHTML))
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:excerptLength])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// templateFor resolves the template from frontmatter or, failing that, from
// the top-level directory of the file.
func templateFor(declared, rel string) site.Template {
	if declared != "" {
		return site.Template(strings.ToLower(strings.TrimSpace(declared)))
	}
	switch strings.SplitN(rel, "/", 2)[0] {
	case "presentations", "talks":
		return site.TemplatePresentation
	case "pages":
		return site.TemplatePage
	}
	return site.TemplatePost
}

// slugFor derives a slug from the file location: posts/my-post.md and
// posts/my-post/index.md both become /posts/my-post/.
func slugFor(rel string, tmpl site.Template) string {
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if name == "index" {
		name = path.Base(path.Dir(rel))
	}
	section := "posts"
	switch tmpl {
	case site.TemplatePresentation:
		section = "presentations"
	case site.TemplatePage:
		section = "pages"
	}
	return site.CleanSlug(section + "/" + site.Slugify(name))
}
