package site

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Title,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Subtitle != "" {
		data["description"] = cfg.Subtitle
	}
	if cfg.Author.Name != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author.Name,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(node ContentNode, cfg SiteConfig) string {
	meta := ComposeMeta(node, cfg)
	postURL := JoinURL(cfg.URL, node.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      node.Title,
		"description":   meta.Description,
		"datePublished": node.Date.UTC().Format(time.RFC3339),
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if meta.OGImage != "" {
		data["image"] = meta.OGImage
	}
	if cfg.Author.Name != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author.Name,
		}
	}
	if cfg.Title != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Title,
		}
	}
	if len(node.Tags) > 0 {
		data["keywords"] = strings.Join(node.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Manifest is the web app manifest served at /manifest.webmanifest.
type Manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	ThemeColor      string         `json:"theme_color,omitempty"`
	BackgroundColor string         `json:"background_color,omitempty"`
	Icons           []ManifestIcon `json:"icons,omitempty"`
}

// ManifestIcon is one icon entry of the manifest.
type ManifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes,omitempty"`
	Type  string `json:"type,omitempty"`
}

// BuildManifest returns the encoded web manifest for cfg. icon is a
// site-relative path; an empty icon is left out.
func BuildManifest(cfg SiteConfig, icon string) ([]byte, error) {
	m := Manifest{
		Name:            cfg.Title,
		ShortName:       cfg.Title,
		StartURL:        "/",
		Display:         "standalone",
		ThemeColor:      cfg.ThemeColor,
		BackgroundColor: cfg.BackgroundColor,
	}
	if icon != "" {
		m.Icons = []ManifestIcon{{Src: icon, Sizes: "512x512", Type: "image/png"}}
	}
	return json.MarshalIndent(m, "", "  ")
}
