package site

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// JoinURL appends a site-relative path to base so that exactly one slash
// separates them. The result is a plain concatenation otherwise, so the same
// base and path always produce the same string. Absolute URLs in p are
// returned unchanged.
func JoinURL(base, p string) string {
	if p == "" {
		return base
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// CleanSlug normalizes a slug to a rooted path with a trailing slash and no
// repeated slashes. An empty slug stays empty.
func CleanSlug(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	cleaned := path.Clean("/" + s)
	if cleaned == "/" {
		return "/"
	}
	return cleaned + "/"
}

// Slugify converts a title to a slug segment of lowercase letters and digits
// joined by single hyphens. Letters outside ASCII are kept.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// TagSlug returns the path segment of a tag listing. When Slugify would drop
// anything but separators (as for "C++" and "C#"), a short hash of the
// normalized tag is appended so distinct tags keep distinct paths.
func TagSlug(tag string) string {
	key := NormalizeTag(tag)
	slug := Slugify(key)
	if slug != "" && !dropsRunes(key) {
		return slug
	}
	sum := fmt.Sprintf("%016x", xxhash.Sum64String(key))[:8]
	if slug == "" {
		return sum
	}
	return slug + "-" + sum
}

func dropsRunes(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '-' {
			return true
		}
	}
	return false
}

// TagPath returns the site-relative path of a tag listing.
func TagPath(tag string) string {
	return "/tag/" + TagSlug(tag) + "/"
}

// PagePath returns the site-relative path of page n of the article index.
func PagePath(n int) string {
	if n <= 1 {
		return "/"
	}
	return "/page/" + strconv.Itoa(n) + "/"
}
