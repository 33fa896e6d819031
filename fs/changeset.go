// Package fs implements change detection and patch rendering over directory
// trees on the local filesystem.
package fs

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fwojciec/varjudge"
)

// skipNames are build, VCS and editor artifacts excluded from change
// detection at any depth.
var skipNames = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"target":       {},
	"out":          {},
	".next":        {},
	".idea":        {},
	".vscode":      {},
	".DS_Store":    {},
	"__pycache__":  {},
}

// Skipped reports whether a file or directory name is on the skip list.
func Skipped(name string) bool {
	_, ok := skipNames[name]
	return ok
}

// ChangeSet compares the trees at originalRoot and variationRoot and returns
// the added, modified and deleted files between them, sorted by path.
func ChangeSet(originalRoot, variationRoot string) ([]varjudge.Change, error) {
	original, err := listFiles(originalRoot)
	if err != nil {
		return nil, fmt.Errorf("fs: walking %s: %w", originalRoot, err)
	}
	variation, err := listFiles(variationRoot)
	if err != nil {
		return nil, fmt.Errorf("fs: walking %s: %w", variationRoot, err)
	}

	var changes []varjudge.Change
	for path := range variation {
		if _, ok := original[path]; !ok {
			changes = append(changes, varjudge.Change{Path: path, Status: varjudge.StatusAdded})
			continue
		}
		same, err := sameContents(filepath.Join(originalRoot, path), filepath.Join(variationRoot, path))
		if err != nil {
			return nil, err
		}
		if !same {
			changes = append(changes, varjudge.Change{Path: path, Status: varjudge.StatusModified})
		}
	}
	for path := range original {
		if _, ok := variation[path]; !ok {
			changes = append(changes, varjudge.Change{Path: path, Status: varjudge.StatusDeleted})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// listFiles returns the set of slash-separated relative file paths under
// root, honoring the skip list.
func listFiles(root string) (map[string]struct{}, error) {
	files := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if Skipped(d.Name()) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func sameContents(a, b string) (bool, error) {
	dataA, err := os.ReadFile(a)
	if err != nil {
		return false, fmt.Errorf("fs: reading %s: %w", a, err)
	}
	dataB, err := os.ReadFile(b)
	if err != nil {
		return false, fmt.Errorf("fs: reading %s: %w", b, err)
	}
	return bytes.Equal(dataA, dataB), nil
}
