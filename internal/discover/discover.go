// Package discover lists the source files a build group feeds into its
// pipeline. Discovery is deliberately dumb: no extension filtering, no
// ignore rules. Stages decide what a file means.
package discover

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// List returns the absolute paths of the files under root, in deterministic
// lexical order. Flat mode lists only the immediate regular files; recursive
// mode walks the whole subtree. Matching pipeline runs therefore process
// files in the same order on every build.
func List(root string, recursive bool) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrListFailed, root, err)
	}

	var files []string
	if recursive {
		files, err = listRecursive(abs)
	} else {
		files, err = listFlat(abs)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrListFailed, root, err)
	}

	slog.Debug("discovered files", logfields.Path(abs), logfields.Count(len(files)))
	return files, nil
}

func listFlat(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(root, entry.Name()))
	}
	return files, nil
}

func listRecursive(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
