package site

// BuildFeed maps post nodes to feed entries, keeping input order. Drafts and
// non-post nodes are dropped even if the caller already filtered them.
func BuildFeed(nodes []ContentNode, cfg SiteConfig) []FeedEntry {
	return BuildFeedFor(nodes, cfg, TemplatePost)
}

// BuildFeedFor is BuildFeed for an arbitrary template kind. cfg.FeedLimit,
// when positive, caps the number of entries after filtering. Zero and
// NoFeedLimit leave the feed uncapped.
func BuildFeedFor(nodes []ContentNode, cfg SiteConfig, tmpl Template) []FeedEntry {
	entries := make([]FeedEntry, 0, len(nodes))
	for _, n := range nodes {
		if n.Draft || n.Template != tmpl {
			continue
		}
		if cfg.FeedLimit > 0 && len(entries) == cfg.FeedLimit {
			break
		}
		link := JoinURL(cfg.URL, n.Slug)
		entries = append(entries, FeedEntry{
			Title:          n.Title,
			Link:           link,
			GUID:           link,
			PublishDate:    n.Date,
			Description:    n.Description,
			ContentEncoded: n.BodyHTML,
		})
	}
	return entries
}

// Published returns the nodes that are not drafts, in input order.
func Published(nodes []ContentNode) []ContentNode {
	out := make([]ContentNode, 0, len(nodes))
	for _, n := range nodes {
		if !n.Draft {
			out = append(out, n)
		}
	}
	return out
}
