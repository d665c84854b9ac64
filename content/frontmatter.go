package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a YAML frontmatter
// block but never closed it.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Frontmatter is the YAML header of a content file.
type Frontmatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Template    string   `yaml:"template"`
	Draft       bool     `yaml:"draft"`
	Slug        string   `yaml:"slug"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Description string   `yaml:"description"`
	SocialImage string   `yaml:"socialImage"`
}

// Split separates `---` delimited frontmatter from the Markdown body. When
// the document has no frontmatter, had is false and body is the whole input.
func Split(doc []byte) (frontmatter, body []byte, had bool, err error) {
	nl := "\n"
	if bytes.HasPrefix(doc, []byte("---\r\n")) {
		nl = "\r\n"
	}
	open := []byte("---" + nl)
	if !bytes.HasPrefix(doc, open) {
		return nil, doc, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(doc[start:], open) {
		return []byte{}, doc[start+len(open):], true, nil
	}

	closing := []byte(nl + "---")
	idx := bytes.Index(doc[start:], closing)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	fmEnd := start + idx + len(nl)
	rest := doc[start+idx+len(closing):]
	// The closing delimiter must end its line.
	switch {
	case len(rest) == 0:
	case bytes.HasPrefix(rest, []byte(nl)):
		rest = rest[len(nl):]
	default:
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return doc[start:fmEnd], rest, true, nil
}

// ParseFrontmatter decodes raw YAML into a Frontmatter.
func ParseFrontmatter(raw []byte) (Frontmatter, error) {
	var fm Frontmatter
	if len(bytes.TrimSpace(raw)) == 0 {
		return fm, nil
	}
	if err := yaml.Unmarshal(raw, &fm); err != nil {
		return Frontmatter{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, nil
}

// ParseDate accepts the date formats found in frontmatter ("2019-04-02",
// "2019-04-02T22:40:32.169Z", "April 2, 2019", ...). Dates without a zone are
// taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.UTC(), nil
}
