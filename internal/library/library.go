// Package library handles the on-disk layout of a media library:
// one folder per title directly under a root.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PosterName is the file name posters are saved as inside a title folder.
const PosterName = "poster.jpg"

// Folders returns the immediate subdirectories of root, sorted by name.
func Folders(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root: %w", err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// HasPoster reports whether dir already contains poster.jpg.
func HasPoster(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, PosterName))
	return err == nil && info.Mode().IsRegular()
}

// checkWithin returns ErrPathOutsideRoot unless path is root or lies under it.
func checkWithin(root, path string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	cleanRoot := filepath.Clean(absRoot)
	cleanPath := filepath.Clean(absPath)

	// Add separator to prevent /movies matching /movies-other
	if cleanPath == cleanRoot || strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator)) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPathOutsideRoot, path)
}
