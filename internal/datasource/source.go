// Package datasource detects and loads the available content source:
// either a content directory tree (YAML + markdown, the authoring
// format) or a pre-built SQLite content bundle (the deployment format).
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
)

// SourceType identifies the type of content source.
type SourceType string

const (
	// SourceTypeDir is a content directory tree (courses/, runs/,
	// lessons/, licenses/).
	SourceTypeDir SourceType = "dir"
	// SourceTypeBundle is a SQLite content bundle (content.db).
	SourceTypeBundle SourceType = "bundle"
)

// BundleFileName is the default name of a SQLite content bundle inside a
// content directory.
const BundleFileName = "content.db"

// ContentSource is one detected source of course content.
type ContentSource struct {
	Type SourceType
	Path string
}

func (s ContentSource) String() string {
	return fmt.Sprintf("%s (%s)", s.Path, s.Type)
}

// Detect inspects a path and decides how to load content from it.
// A file is treated as a bundle; a directory is treated as a content
// tree unless it contains only a bundle file.
func Detect(path string) (ContentSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ContentSource{}, fmt.Errorf("content path: %w", err)
	}

	if !info.IsDir() {
		return ContentSource{Type: SourceTypeBundle, Path: path}, nil
	}

	// A directory with authoring subtrees wins over an embedded bundle.
	for _, sub := range []string{"courses", "runs", "lessons"} {
		if sub, err := os.Stat(filepath.Join(path, sub)); err == nil && sub.IsDir() {
			return ContentSource{Type: SourceTypeDir, Path: path}, nil
		}
	}

	bundle := filepath.Join(path, BundleFileName)
	if _, err := os.Stat(bundle); err == nil {
		return ContentSource{Type: SourceTypeBundle, Path: bundle}, nil
	}

	return ContentSource{}, fmt.Errorf("no course content found at %s", path)
}
