package site

import (
	"sort"
	"strings"
)

// FilterRelated finds published nodes of the same template that share at
// least one tag with current.
func FilterRelated(current ContentNode, nodes []ContentNode) []ContentNode {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := NormalizeTag(t)
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []ContentNode
	for _, n := range nodes {
		if n.Slug == current.Slug || n.Draft || n.Template != current.Template {
			continue
		}
		for _, t := range n.Tags {
			if _, ok := tagSet[NormalizeTag(t)]; ok {
				related = append(related, n)
				break
			}
		}
	}
	return related
}

// NormalizeTag is the key tags are compared by: lowercased and trimmed,
// without commas.
func NormalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(t, ",", "")))
}

// HasTag reports whether n carries tag, ignoring case.
func (n ContentNode) HasTag(tag string) bool {
	want := NormalizeTag(tag)
	for _, t := range n.Tags {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}

// CollectTags returns the tags of the published nodes, one per normalized
// key and sorted by it. Each tag keeps the spelling it was first seen with.
func CollectTags(nodes []ContentNode) []string {
	spelling := make(map[string]string)
	for _, n := range Published(nodes) {
		for _, t := range n.Tags {
			key := NormalizeTag(t)
			if key == "" {
				continue
			}
			if _, ok := spelling[key]; !ok {
				spelling[key] = strings.TrimSpace(t)
			}
		}
	}
	keys := make([]string, 0, len(spelling))
	for k := range spelling {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make([]string, len(keys))
	for i, k := range keys {
		result[i] = spelling[k]
	}
	return result
}

// Paginate splits nodes into pages of size perPage. A non-positive perPage
// yields a single page. An empty input yields one empty page so the index
// still renders.
func Paginate(nodes []ContentNode, perPage int) [][]ContentNode {
	if perPage <= 0 || len(nodes) <= perPage {
		return [][]ContentNode{nodes}
	}
	var pages [][]ContentNode
	for start := 0; start < len(nodes); start += perPage {
		end := start + perPage
		if end > len(nodes) {
			end = len(nodes)
		}
		pages = append(pages, nodes[start:end])
	}
	return pages
}
