package judge_test

import (
	"testing"

	"github.com/fwojciec/varjudge"
	"github.com/fwojciec/varjudge/judge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileDiff(path string) varjudge.FileDiff {
	return varjudge.FileDiff{
		FilePath: path,
		Status:   varjudge.StatusModified,
		Patch:    "--- a/" + path + "\n+++ b/" + path + "\n@@ -1 +1 @@\n-old\n+new\n",
		Original: "old\n",
		Modified: "new\n",
	}
}

func TestBuildIndex_EveryPairExactlyOnce(t *testing.T) {
	t.Parallel()

	diffs := []varjudge.VariationDiffs{
		{VariationID: "var-2", Diffs: []varjudge.FileDiff{fileDiff("a.go"), fileDiff("b.go")}},
		{VariationID: "var-1", Diffs: []varjudge.FileDiff{fileDiff("b.go")}},
	}

	index := judge.BuildIndex(diffs)

	assert.Equal(t, []string{"var-1", "var-2"}, index.Variations)
	assert.Equal(t, []string{"a.go", "b.go"}, index.Paths)
	for _, path := range index.Paths {
		entries := index.Entries[path]
		require.Len(t, entries, 2, "every variation appears exactly once per file")
		assert.Equal(t, "var-1", entries[0].VariationID)
		assert.Equal(t, "var-2", entries[1].VariationID)
	}
	// var-1 did not touch a.go: placeholder entry with nil diff.
	assert.Nil(t, index.Entries["a.go"][0].Diff)
	assert.NotNil(t, index.Entries["a.go"][1].Diff)
}

func TestBuildIndex_DisjointFiles(t *testing.T) {
	t.Parallel()

	diffs := []varjudge.VariationDiffs{
		{VariationID: "var-1", Diffs: []varjudge.FileDiff{fileDiff("x.txt")}},
		{VariationID: "var-2", Diffs: []varjudge.FileDiff{fileDiff("y.txt")}},
	}

	index := judge.BuildIndex(diffs)

	x := index.Entries["x.txt"]
	require.Len(t, x, 2)
	assert.NotNil(t, x[0].Diff, "var-1 changed x.txt")
	assert.Nil(t, x[1].Diff, "var-2 left x.txt untouched")

	y := index.Entries["y.txt"]
	require.Len(t, y, 2)
	assert.Nil(t, y[0].Diff, "var-1 left y.txt untouched")
	assert.NotNil(t, y[1].Diff, "var-2 changed y.txt")
}

func TestBuildIndex_Empty(t *testing.T) {
	t.Parallel()

	index := judge.BuildIndex(nil)

	assert.Empty(t, index.Paths)
	assert.Empty(t, index.Variations)
}

func TestBuildIndex_VariationWithNoDiffsStillCounts(t *testing.T) {
	t.Parallel()

	diffs := []varjudge.VariationDiffs{
		{VariationID: "var-1", Diffs: []varjudge.FileDiff{fileDiff("a.go")}},
		{VariationID: "var-2"},
	}

	index := judge.BuildIndex(diffs)

	assert.Equal(t, []string{"var-1", "var-2"}, index.Variations)
	entries := index.Entries["a.go"]
	require.Len(t, entries, 2)
	assert.Nil(t, entries[1].Diff)
}
