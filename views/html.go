// Package views renders the site's pages as templ components. Components
// are plain templ.ComponentFunc values so they compose with any other templ
// component, generated or not.
package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

// raw writes trusted markup.
func (h *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes escaped character data.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// el writes a start tag with attributes given as name/value pairs.
func (h *htmlWriter) el(tag string, attrs ...string) {
	h.raw("<", tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		h.attr(attrs[i], attrs[i+1])
	}
	h.raw(">")
}

func (h *htmlWriter) end(tag string) {
	h.raw("</", tag, ">")
}

// textEl writes <tag attrs...>text</tag>.
func (h *htmlWriter) textEl(tag, text string, attrs ...string) {
	h.el(tag, attrs...)
	h.text(text)
	h.end(tag)
}

func (h *htmlWriter) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

func classes(names ...string) string {
	var out []string
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}
