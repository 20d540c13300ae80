package coresite

import (
	"embed"
	"io/fs"
)

// EmbeddedAssets contains the static assets shipped with the site:
// site.css, forms.js, blog-search.js.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

func embeddedAssetNames() []string {
	entries, err := fs.ReadDir(EmbeddedAssets, "embedded")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
