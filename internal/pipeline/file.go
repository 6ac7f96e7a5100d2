package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// File describes one discovered source file. It is computed immediately
// before the file's pipeline runs and is never shared between files.
type File struct {
	Abs    string // absolute path on disk
	Rel    string // path relative to the folder's source directory
	Base   string // file name without extension
	Ext    string // extension including the leading dot, "" when none
	Dir    string // directory portion of Rel, "" for files at the root
	Folder string // folder group label (the source key)
}

// NewFile builds the descriptor for a file discovered under sourceDir.
func NewFile(folder, sourceDir, path string) (*File, error) {
	rel, err := filepath.Rel(sourceDir, path)
	if err != nil {
		return nil, fmt.Errorf("relativize %s under %s: %w", path, sourceDir, err)
	}

	name := filepath.Base(path)
	ext := filepath.Ext(name)
	dir := filepath.Dir(rel)
	if dir == "." {
		dir = ""
	}

	return &File{
		Abs:    path,
		Rel:    rel,
		Base:   strings.TrimSuffix(name, ext),
		Ext:    ext,
		Dir:    dir,
		Folder: folder,
	}, nil
}
