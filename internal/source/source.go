// Package source turns a user-supplied root directory into the list of files
// to scan.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

var (
	ErrEmptyPath = errors.New("path cannot be empty")
	ErrNotDir    = errors.New("not a directory")
)

// Resolve validates root and returns the absolute paths of the regular files
// in it, sorted. Without recursive only the top level is listed.
func Resolve(fs afero.Fs, root string, recursive bool) ([]string, error) {
	if root == "" {
		return nil, ErrEmptyPath
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	info, err := fs.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("directory does not exist: %s: %w", root, err)
		}
		return nil, fmt.Errorf("error accessing path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDir)
	}

	var files []string
	if recursive {
		err = afero.Walk(fs, abs, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if regular(fs, path, fi) {
				files = append(files, path)
			}
			return nil
		})
	} else {
		var entries []os.FileInfo
		entries, err = afero.ReadDir(fs, abs)
		for _, fi := range entries {
			path := filepath.Join(abs, fi.Name())
			if regular(fs, path, fi) {
				files = append(files, path)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing path: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// regular reports whether fi is a regular file. Listings come from Lstat, so a
// symlink is followed once and kept when its target is a regular file; links
// to directories are not descended into and dangling links are skipped.
func regular(fs afero.Fs, path string, fi os.FileInfo) bool {
	if fi.Mode()&os.ModeSymlink == 0 {
		return fi.Mode().IsRegular()
	}
	target, err := fs.Stat(path)
	return err == nil && target.Mode().IsRegular()
}
