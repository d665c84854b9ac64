package folio

import (
	"embed"
	"io/fs"
)

// EmbeddedAssets contains the stylesheet and the theme script shipped with
// folio. They are written to /static/ on build and served from there by the
// preview server.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

func embeddedFS() fs.FS {
	sub, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		panic(err)
	}
	return sub
}
