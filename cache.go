package folio

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eringen/folio/site"
)

// NodeCache is an in-memory TTL cache of every indexed node. It serves the
// preview server so that page requests do not hit SQLite.
type NodeCache struct {
	mu      sync.RWMutex
	nodes   []site.ContentNode
	fetched time.Time
	ttl     time.Duration
	repo    Repository
}

var _ Repository = (*NodeCache)(nil)

// NewNodeCache creates a NodeCache backed by repo.
func NewNodeCache(repo Repository, ttl time.Duration) *NodeCache {
	return &NodeCache{repo: repo, ttl: ttl}
}

func (c *NodeCache) valid() bool {
	return c.nodes != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *NodeCache) Invalidate() {
	c.mu.Lock()
	c.nodes = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached nodes after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *NodeCache) ensureLoaded(ctx context.Context) ([]site.ContentNode, error) {
	c.mu.RLock()
	if c.valid() {
		nodes := c.nodes
		c.mu.RUnlock()
		return nodes, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.nodes, nil
	}
	nodes, err := c.repo.ListContentNodes(ctx, Filter{IncludeDrafts: true}, NewestFirst)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []site.ContentNode{}
	}
	c.nodes = nodes
	c.fetched = time.Now()
	return nodes, nil
}

// ListContentNodes filters and orders the cached nodes.
func (c *NodeCache) ListContentNodes(ctx context.Context, f Filter, so Sort) ([]site.ContentNode, error) {
	nodes, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return applyFilter(nodes, f, so), nil
}

// GetContentNode returns a single node by slug from the cache.
func (c *NodeCache) GetContentNode(ctx context.Context, slug string) (site.ContentNode, error) {
	nodes, err := c.ensureLoaded(ctx)
	if err != nil {
		return site.ContentNode{}, err
	}
	slug = site.CleanSlug(slug)
	for _, n := range nodes {
		if n.Slug == slug {
			return n, nil
		}
	}
	return site.ContentNode{}, ErrNotFound
}

// applyFilter mirrors the Store query semantics over an in-memory slice.
// The input is never modified.
func applyFilter(nodes []site.ContentNode, f Filter, so Sort) []site.ContentNode {
	if !f.IncludeDrafts {
		nodes = site.Published(nodes)
	}
	var out []site.ContentNode
	for _, n := range nodes {
		if f.Template != "" && n.Template != f.Template {
			continue
		}
		if f.Tag != "" && !n.HasTag(f.Tag) {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if so.Field == SortByTitle {
			ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
			if ta != tb {
				return (ta < tb) != so.Desc
			}
			return a.Slug < b.Slug
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date) != so.Desc
		}
		return a.Slug < b.Slug
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}
