// Package scanner finds the playable media files a run should rename.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// IsPlayable reports whether name ends in one of exts. Extensions are given
// without the leading dot and compared case-insensitively.
func IsPlayable(name string, exts []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.EqualFold(ext, strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}

// Discover lists the playable regular files directly inside dir, in name
// order. Subdirectories are not entered.
func Discover(fs afero.Fs, dir string, exts []string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, info := range entries {
		if !info.Mode().IsRegular() {
			continue
		}
		if !IsPlayable(info.Name(), exts) {
			continue
		}
		files = append(files, filepath.Join(dir, info.Name()))
	}

	sort.Strings(files)
	return files, nil
}

// Walk is like Discover but descends into subdirectories. Unreadable
// directories are skipped.
func Walk(fs afero.Fs, root string, exts []string) ([]string, error) {
	var files []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if info.Mode().IsRegular() && IsPlayable(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// Filter splits paths into playable ones and the rest, keeping their order.
func Filter(paths []string, exts []string) (playable, skipped []string) {
	for _, p := range paths {
		if IsPlayable(p, exts) {
			playable = append(playable, p)
		} else {
			skipped = append(skipped, p)
		}
	}
	return playable, skipped
}
