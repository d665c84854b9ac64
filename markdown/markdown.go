// Package markdown renders content Markdown to HTML with goldmark.
package markdown

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Result is the rendered body of one document.
type Result struct {
	HTML string
	// Images lists local image destinations referenced by the document, in
	// order of appearance, without duplicates.
	Images []string
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer. Links to hosts other than siteURL's open in
// a new tab with rel="nofollow noopener noreferrer".
func NewRenderer(siteURL string) *Renderer {
	host := ""
	if u, err := url.Parse(siteURL); err == nil {
		host = u.Hostname()
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&externalLinks{siteHost: host}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md}
}

// Render converts src to HTML and collects local image references.
func (r *Renderer) Render(src []byte) (Result, error) {
	doc := r.md.Parser().Parse(text.NewReader(src))

	var images []string
	seen := make(map[string]struct{})
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := n.(*ast.Image); ok {
			dest := string(img.Destination)
			if isLocal(dest) {
				if _, dup := seen[dest]; !dup {
					seen[dest] = struct{}{}
					images = append(images, dest)
				}
			}
		}
		return ast.WalkContinue, nil
	})

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return Result{}, err
	}
	return Result{HTML: buf.String(), Images: images}, nil
}

// externalLinks marks links to other hosts so they open in a new tab.
type externalLinks struct {
	siteHost string
}

func (t *externalLinks) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var dest string
		switch link := n.(type) {
		case *ast.Link:
			dest = string(link.Destination)
		case *ast.AutoLink:
			if link.AutoLinkType != ast.AutoLinkURL {
				return ast.WalkContinue, nil
			}
			dest = string(link.URL(source))
		default:
			return ast.WalkContinue, nil
		}
		if t.isExternal(dest) {
			n.SetAttributeString("target", []byte("_blank"))
			n.SetAttributeString("rel", []byte("nofollow noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})
}

func (t *externalLinks) isExternal(dest string) bool {
	if !strings.HasPrefix(dest, "http://") && !strings.HasPrefix(dest, "https://") {
		return false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return t.siteHost == "" || !strings.EqualFold(u.Hostname(), t.siteHost)
}

func isLocal(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "data:") || strings.HasPrefix(dest, "//") {
		return false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return u.Scheme == ""
}
