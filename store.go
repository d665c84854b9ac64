package folio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/folio/site"
)

// ErrNotFound is returned when a requested content node does not exist.
var ErrNotFound = errors.New("folio: content node not found")

const nodeColumns = `slug, title, date, description, tags, category, body_html, excerpt, draft, template, social_image, source_path`

// Store is the SQLite index of content nodes. It is rebuilt from the
// content directory on every build and reindex.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the preview server read while a reindex writes.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS nodes (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    description TEXT NOT NULL,
    tags TEXT NOT NULL,
    category TEXT NOT NULL,
    body_html TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0,
    template TEXT NOT NULL,
    social_image TEXT NOT NULL,
    source_path TEXT NOT NULL,
    tag_keys TEXT NOT NULL DEFAULT '',
    title_key TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS nodes_template_date ON nodes (template, date);
`)
	if err != nil {
		return err
	}
	if err := s.ensureColumn("tag_keys", `ALTER TABLE nodes ADD COLUMN tag_keys TEXT NOT NULL DEFAULT ''`); err != nil {
		return err
	}
	return s.ensureColumn("title_key", `ALTER TABLE nodes ADD COLUMN title_key TEXT NOT NULL DEFAULT ''`)
}

// ensureColumn adds a column to indexes created by older versions.
func (s *Store) ensureColumn(name, ddl string) error {
	rows, err := s.db.Query(`SELECT name FROM pragma_table_info('nodes')`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return err
		}
		if col == name {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = s.db.Exec(ddl)
	return err
}

// ReplaceAll swaps the indexed nodes for nodes in a single transaction, so
// readers see either the old or the new content set.
func (s *Store) ReplaceAll(ctx context.Context, nodes []site.ContentNode) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO nodes (`+nodeColumns+`, tag_keys, title_key) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, n := range nodes {
		image := ""
		if n.HasImage() {
			image = n.SocialImage.PublicURL
		}
		draft := 0
		if n.Draft {
			draft = 1
		}
		if _, err := stmt.ExecContext(ctx,
			n.Slug, n.Title, formatDate(n.Date), n.Description, JoinTags(n.Tags),
			n.Category, n.BodyHTML, n.Excerpt, draft, string(n.Template), image, n.SourcePath,
			tagKeys(n.Tags), strings.ToLower(n.Title),
		); err != nil {
			return fmt.Errorf("index %s: %w", n.Slug, err)
		}
	}
	return tx.Commit()
}

// ListContentNodes returns the nodes matching f ordered by so.
func (s *Store) ListContentNodes(ctx context.Context, f Filter, so Sort) ([]site.ContentNode, error) {
	var (
		where []string
		args  []any
	)
	if !f.IncludeDrafts {
		where = append(where, `draft = 0`)
	}
	if f.Template != "" {
		where = append(where, `template = ?`)
		args = append(args, string(f.Template))
	}
	if tag := site.NormalizeTag(f.Tag); tag != "" {
		where = append(where, `instr(tag_keys, ',' || ? || ',') > 0`)
		args = append(args, tag)
	}

	q := `SELECT ` + nodeColumns + ` FROM nodes`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY ` + orderBy(so)
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []site.ContentNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// GetContentNode returns a single node by slug, drafts included.
func (s *Store) GetContentNode(ctx context.Context, slug string) (site.ContentNode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE slug = ?`, site.CleanSlug(slug))
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return site.ContentNode{}, ErrNotFound
	}
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(sc scanner) (site.ContentNode, error) {
	var n site.ContentNode
	var date, tags, tmpl, image string
	var draft int
	if err := sc.Scan(&n.Slug, &n.Title, &date, &n.Description, &tags, &n.Category,
		&n.BodyHTML, &n.Excerpt, &draft, &tmpl, &image, &n.SourcePath); err != nil {
		return site.ContentNode{}, err
	}
	if date != "" {
		t, err := time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return site.ContentNode{}, fmt.Errorf("node %s: parse date: %w", n.Slug, err)
		}
		n.Date = t
	}
	n.Tags = ParseTags(tags)
	n.Draft = draft == 1
	n.Template = site.Template(tmpl)
	if image != "" {
		n.SocialImage = &site.SocialImage{PublicURL: image}
	}
	return n, nil
}

func orderBy(so Sort) string {
	dir := "ASC"
	if so.Desc {
		dir = "DESC"
	}
	switch so.Field {
	case SortByTitle:
		return "title_key " + dir + ", slug ASC"
	default:
		return "date " + dir + ", slug ASC"
	}
}

// formatDate stores dates as fixed-width UTC strings so that lexical order
// matches chronological order. The zero time is stored as "".
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

// JoinTags encodes tags as a comma-delimited string (e.g. ",go,web,").
// Commas inside a tag are dropped.
func JoinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.ReplaceAll(t, ",", ""))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	return "," + strings.Join(cleaned, ",") + ","
}

// tagKeys encodes the normalized tags the same way JoinTags does. SQLite's
// lower() folds ASCII only, so tag filters and title order use columns
// lowercased in Go.
func tagKeys(tags []string) string {
	keys := make([]string, len(tags))
	for i, t := range tags {
		keys[i] = site.NormalizeTag(t)
	}
	return JoinTags(keys)
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
