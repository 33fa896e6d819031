package fs

import (
	"context"

	"github.com/fwojciec/varjudge"
)

// Compile-time interface verification.
var _ varjudge.VariationDiffer = (*Differ)(nil)

// Differ implements varjudge.VariationDiffer over local directory trees.
type Differ struct{}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff returns one FileDiff per file changed between the two roots, sorted
// by path.
func (d *Differ) Diff(ctx context.Context, originalRoot, variationRoot string) ([]varjudge.FileDiff, error) {
	changes, err := ChangeSet(originalRoot, variationRoot)
	if err != nil {
		return nil, err
	}

	diffs := make([]varjudge.FileDiff, 0, len(changes))
	for _, change := range changes {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		fd, err := RenderFileDiff(originalRoot, variationRoot, change.Path)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, *fd)
	}
	return diffs, nil
}
