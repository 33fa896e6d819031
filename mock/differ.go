package mock

import (
	"context"

	"github.com/fwojciec/varjudge"
)

// Compile-time interface verification.
var (
	_ varjudge.VariationDiffer = (*VariationDiffer)(nil)
	_ varjudge.Workspace       = (*Workspace)(nil)
)

// VariationDiffer is a mock implementation of varjudge.VariationDiffer.
type VariationDiffer struct {
	DiffFn func(ctx context.Context, originalRoot, variationRoot string) ([]varjudge.FileDiff, error)
}

func (d *VariationDiffer) Diff(ctx context.Context, originalRoot, variationRoot string) ([]varjudge.FileDiff, error) {
	return d.DiffFn(ctx, originalRoot, variationRoot)
}

// Workspace is a mock implementation of varjudge.Workspace.
type Workspace struct {
	CloneFn   func(ctx context.Context, originalRoot string, n int) ([]string, error)
	PromoteFn func(ctx context.Context, originalRoot, variationRoot string) error
}

func (w *Workspace) Clone(ctx context.Context, originalRoot string, n int) ([]string, error) {
	return w.CloneFn(ctx, originalRoot, n)
}

func (w *Workspace) Promote(ctx context.Context, originalRoot, variationRoot string) error {
	return w.PromoteFn(ctx, originalRoot, variationRoot)
}
