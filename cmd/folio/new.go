package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/eringen/folio/scaffold"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Dir    string `arg:"" help:"Directory to create"`
	Title  string `help:"Site title (defaults to the directory name)"`
	URL    string `help:"Canonical site URL" default:"https://example.com"`
	Author string `help:"Author name" default:"Your Name"`
}

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	SiteName   string
	URL        string
	AuthorName string
	Date       string
}

func (n *NewCmd) Run(g *Global) error {
	title := n.Title
	if title == "" {
		title = toTitle(filepath.Base(n.Dir))
	}
	data := scaffoldData{
		SiteName:   title,
		URL:        strings.TrimRight(n.URL, "/"),
		AuthorName: n.Author,
		Date:       time.Now().UTC().Format("2006-01-02"),
	}
	files, err := writeScaffold(n.Dir, data)
	if err != nil {
		return err
	}
	g.Logger.Debug("scaffold written", zap.String("dir", n.Dir), zap.Strings("files", files))

	fmt.Printf("Created %s\n\n", n.Dir)
	for _, f := range files {
		fmt.Printf("  %s\n", f)
	}
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", n.Dir)
	fmt.Println("  cp .env.example .env")
	fmt.Println("  folio serve --watch")
	return nil
}

// writeScaffold renders the embedded templates into dir, which must not
// exist yet. It returns the created files relative to dir.
func writeScaffold(dir string, data scaffoldData) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("directory %q already exists", dir)
	}

	const root = "templates"
	var created []string
	err := fs.WalkDir(scaffold.Templates, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		outPath := filepath.Join(dir, strings.TrimSuffix(rel, ".tmpl"))
		switch filepath.Base(outPath) {
		case "dotenv":
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		case "gitignore":
			outPath = filepath.Join(filepath.Dir(outPath), ".gitignore")
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		raw, err := scaffold.Templates.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		tmpl, err := template.New(filepath.Base(p)).Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", p, err)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", p, err)
		}
		created = append(created, filepath.ToSlash(strings.TrimPrefix(outPath, dir+string(filepath.Separator))))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
