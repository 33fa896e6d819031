// Package judge implements the comparative judging pipeline: it merges
// per-variation change sets into a cross-variation view, farms file
// evaluation out to a reasoning agent in batches, tolerates partial
// failures, streams progress, and synthesizes a final ranking.
package judge

import (
	"sort"

	"github.com/fwojciec/varjudge"
)

// FileIndex is the cross-variation view of a set of variation diffs: every
// changed file path mapped to one entry per variation.
type FileIndex struct {
	// Paths lists every changed file path, sorted lexicographically. This is
	// the batch order for evaluation.
	Paths []string
	// Entries maps each path to its per-variation entries, sorted by
	// variation ID. Every variation appears exactly once per path; entries
	// for variations that left the file untouched carry a nil Diff.
	Entries map[string][]varjudge.VariationEntry
	// Variations lists the distinct variation IDs, sorted.
	Variations []string
}

// BuildIndex merges per-variation diffs into a FileIndex. Ordering is fully
// deterministic for identical input, which keeps batch order and progress
// reporting reproducible across runs.
func BuildIndex(diffs []varjudge.VariationDiffs) *FileIndex {
	byPath := make(map[string]map[string]*varjudge.FileDiff)
	seen := make(map[string]struct{})
	var variations []string

	for _, vd := range diffs {
		if _, ok := seen[vd.VariationID]; !ok {
			seen[vd.VariationID] = struct{}{}
			variations = append(variations, vd.VariationID)
		}
		for i := range vd.Diffs {
			fd := vd.Diffs[i]
			if byPath[fd.FilePath] == nil {
				byPath[fd.FilePath] = make(map[string]*varjudge.FileDiff)
			}
			byPath[fd.FilePath][vd.VariationID] = &fd
		}
	}
	sort.Strings(variations)

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make(map[string][]varjudge.VariationEntry, len(paths))
	for _, path := range paths {
		row := make([]varjudge.VariationEntry, 0, len(variations))
		for _, id := range variations {
			row = append(row, varjudge.VariationEntry{
				VariationID: id,
				Diff:        byPath[path][id],
			})
		}
		entries[path] = row
	}

	return &FileIndex{Paths: paths, Entries: entries, Variations: variations}
}
