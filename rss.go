package folio

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/eringen/folio/site"
)

type rssXML struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	AtomNS    string     `xml:"xmlns:atom,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	AtomLink      atomLink  `xml:"atom:link"`
	Copyright     string    `xml:"copyright,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate,omitempty"`
	GUID        rssGUID `xml:"guid"`
	Content     cdata   `xml:"content:encoded"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

// writeRSS encodes entries as an RSS 2.0 document with full post bodies in
// content:encoded. lastBuildDate is the newest entry's date so the output
// only changes when the content does.
func writeRSS(w io.Writer, entries []site.FeedEntry, cfg site.SiteConfig) error {
	items := make([]rssItem, 0, len(entries))
	var newest time.Time
	for _, e := range entries {
		pubDate := ""
		if !e.PublishDate.IsZero() {
			pubDate = e.PublishDate.UTC().Format(time.RFC1123Z)
			if e.PublishDate.After(newest) {
				newest = e.PublishDate
			}
		}
		items = append(items, rssItem{
			Title:       e.Title,
			Link:        e.Link,
			Description: e.Description,
			PubDate:     pubDate,
			GUID:        rssGUID{Value: e.GUID, IsPermaLink: true},
			Content:     cdata{Value: e.ContentEncoded},
		})
	}
	feed := rssXML{
		Version:   "2.0",
		ContentNS: "http://purl.org/rss/1.0/modules/content/",
		AtomNS:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       cfg.Title,
			Link:        site.JoinURL(cfg.URL, "/"),
			Description: cfg.Subtitle,
			AtomLink: atomLink{
				Href: site.JoinURL(cfg.URL, cfg.FeedPath),
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Copyright: cfg.Copyright,
			Items:     items,
		},
	}
	if !newest.IsZero() {
		feed.Channel.LastBuildDate = newest.UTC().Format(time.RFC1123Z)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(feed)
}
