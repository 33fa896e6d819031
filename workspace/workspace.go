// Package workspace creates and promotes variation working directories.
package workspace

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/varjudge"
	"github.com/fwojciec/varjudge/fs"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ varjudge.Workspace = (*Manager)(nil)

// Manager implements varjudge.Workspace on the local filesystem.
type Manager struct{}

// NewManager creates a new Manager.
func NewManager() *Manager {
	return &Manager{}
}

// Clone copies originalRoot into n sibling directories named
// <base>-var-<i>-<id> and returns their paths in variation order. Skip-list
// entries (VCS metadata, dependency caches, build output) are not copied.
func (m *Manager) Clone(ctx context.Context, originalRoot string, n int) ([]string, error) {
	abs, err := filepath.Abs(originalRoot)
	if err != nil {
		return nil, fmt.Errorf("workspace: resolving %s: %w", originalRoot, err)
	}
	parent := filepath.Dir(abs)
	base := filepath.Base(abs)

	paths := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := uuid.NewString()[:8]
		dest := filepath.Join(parent, fmt.Sprintf("%s-var-%d-%s", base, i, id))
		if err := copyTree(ctx, abs, dest); err != nil {
			return nil, err
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

// Promote copies a variation's changes back over the original tree: added
// and modified files are copied over, deleted files are removed.
func (m *Manager) Promote(ctx context.Context, originalRoot, variationRoot string) error {
	changes, err := fs.ChangeSet(originalRoot, variationRoot)
	if err != nil {
		return err
	}

	for _, change := range changes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		target := filepath.Join(originalRoot, filepath.FromSlash(change.Path))
		switch change.Status {
		case varjudge.StatusDeleted:
			if err := os.Remove(target); err != nil {
				return fmt.Errorf("workspace: removing %s: %w", change.Path, err)
			}
		default:
			source := filepath.Join(variationRoot, filepath.FromSlash(change.Path))
			if err := copyFile(source, target); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyTree recursively copies src to dst, honoring the skip list.
func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if fs.Skipped(d.Name()) && path != src {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("workspace: stat %s: %w", src, err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("workspace: reading %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("workspace: creating %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("workspace: writing %s: %w", dst, err)
	}
	return nil
}
