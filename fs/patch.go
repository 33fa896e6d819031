package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/varjudge"
	"github.com/pmezard/go-difflib/difflib"
)

// RenderFileDiff reads relPath under both roots and produces the FileDiff
// for it: raw before/after contents plus a unified diff with empty timestamp
// fields. Status is derived from which side the file exists on.
func RenderFileDiff(originalRoot, variationRoot, relPath string) (*varjudge.FileDiff, error) {
	original, origExists, err := readIfExists(filepath.Join(originalRoot, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, err
	}
	modified, modExists, err := readIfExists(filepath.Join(variationRoot, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, err
	}
	if !origExists && !modExists {
		return nil, fmt.Errorf("fs: %s exists in neither tree", relPath)
	}

	status := varjudge.StatusModified
	switch {
	case !origExists:
		status = varjudge.StatusAdded
	case !modExists:
		status = varjudge.StatusDeleted
	}

	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: "a/" + relPath,
		ToFile:   "b/" + relPath,
		Context:  3,
	})
	if err != nil {
		return nil, fmt.Errorf("fs: rendering diff for %s: %w", relPath, err)
	}

	return &varjudge.FileDiff{
		FilePath: relPath,
		Status:   status,
		Patch:    patch,
		Original: original,
		Modified: modified,
	}, nil
}

func readIfExists(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("fs: reading %s: %w", path, err)
	}
	return string(data), true, nil
}
