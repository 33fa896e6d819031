package judge

import (
	"context"
	"sort"

	"github.com/fwojciec/varjudge"
	"golang.org/x/sync/errgroup"
)

// gatherWorkers bounds the number of variations diffed concurrently.
// Diffing is side-effect-free, so unlike evaluation it may run in parallel.
const gatherWorkers = 4

// GatherDiffs diffs every variation against the original concurrently and
// returns the results ordered by variation ID.
func GatherDiffs(ctx context.Context, differ varjudge.VariationDiffer, originalRoot string, variations map[string]string) ([]varjudge.VariationDiffs, error) {
	ids := make([]string, 0, len(variations))
	for id := range variations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]varjudge.VariationDiffs, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(gatherWorkers)
	for i, id := range ids {
		g.Go(func() error {
			diffs, err := differ.Diff(ctx, originalRoot, variations[id])
			if err != nil {
				return err
			}
			results[i] = varjudge.VariationDiffs{VariationID: id, Diffs: diffs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
