package folio

import (
	"encoding/xml"
	"io"

	"github.com/eringen/folio/site"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func writeSitemap(w io.Writer, urls []sitemapURL) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(sitemap)
}

// sitemapURLs maps routes to absolute sitemap entries under base.
func sitemapURLs(base string, rs []route) []sitemapURL {
	urls := make([]sitemapURL, 0, len(rs))
	for _, r := range rs {
		u := sitemapURL{Loc: site.JoinURL(base, r.path)}
		if !r.lastMod.IsZero() {
			u.LastMod = r.lastMod.UTC().Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	return urls
}
