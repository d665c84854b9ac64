package folio

import (
	"context"

	"github.com/eringen/folio/site"
)

// SortField names the column content listings are ordered by.
type SortField string

const (
	SortByDate  SortField = "date"
	SortByTitle SortField = "title"
)

// Filter narrows a content listing. Zero values match everything except
// drafts.
type Filter struct {
	Template      site.Template // Empty matches every template
	Tag           string        // Case-insensitive
	IncludeDrafts bool
	Limit         int // 0 means no limit
}

// Sort orders a content listing.
type Sort struct {
	Field SortField
	Desc  bool
}

// NewestFirst is the default ordering of every listing on the site.
var NewestFirst = Sort{Field: SortByDate, Desc: true}

// Repository provides read access to indexed content nodes.
type Repository interface {
	ListContentNodes(ctx context.Context, f Filter, s Sort) ([]site.ContentNode, error)
	GetContentNode(ctx context.Context, slug string) (site.ContentNode, error)
}
