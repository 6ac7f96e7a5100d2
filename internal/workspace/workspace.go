// Package workspace materializes the directory layout a build writes into.
// Creation is idempotent: a directory that already exists is a success, so
// repeated builds and watch-mode rebuilds run over the same output tree.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// Ensure creates a directory if it is absent. With recursive set, missing
// parents are created as well; without it, the parent must already exist.
// An existing directory is left untouched; an existing non-directory at the
// path is an error.
func Ensure(path string, recursive bool) error {
	if recursive {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return fmt.Errorf("ensure directory %s: %w", path, err)
		}
		return nil
	}

	err := os.Mkdir(path, 0o750)
	if err == nil {
		slog.Debug("created directory", logfields.Path(path))
		return nil
	}
	if !os.IsExist(err) {
		return fmt.Errorf("ensure directory %s: %w", path, err)
	}

	// Something already occupies the path; only a directory counts.
	info, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf("ensure directory %s: %w", path, statErr)
	}
	if !info.IsDir() {
		return fmt.Errorf("ensure directory %s: path exists and is not a directory", path)
	}
	return nil
}

// Clean empties a directory without removing the directory itself, so open
// handles and watchers on the root stay valid. A missing directory is not
// an error.
func Clean(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clean %s: %w", path, err)
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(path, entry.Name())); err != nil {
			return fmt.Errorf("clean %s: %w", path, err)
		}
	}

	slog.Debug("cleaned directory", logfields.Path(path), logfields.Count(len(entries)))
	return nil
}
