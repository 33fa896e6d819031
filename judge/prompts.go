package judge

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/varjudge"
)

// truncatePatch bounds a patch to limit bytes, appending an explicit marker
// so the model knows the diff was cut. The cut lands on a rune boundary so a
// multi-byte character is never split.
func truncatePatch(patch string, limit int) string {
	if limit <= 0 || len(patch) <= limit {
		return patch
	}
	for limit > 0 && !utf8.RuneStart(patch[limit]) {
		limit--
	}
	return patch[:limit] + "\n(truncated)"
}

// writeFileSection writes one file's cross-variation diffs into sb.
func writeFileSection(sb *strings.Builder, path string, entries []varjudge.VariationEntry, limit int) {
	fmt.Fprintf(sb, "### %s\n\n", path)
	for _, entry := range entries {
		if entry.Diff == nil {
			fmt.Fprintf(sb, "[%s] (no changes)\n\n", entry.VariationID)
			continue
		}
		fmt.Fprintf(sb, "[%s] %s\n", entry.VariationID, entry.Diff.Status)
		sb.WriteString(truncatePatch(entry.Diff.Patch, limit))
		sb.WriteString("\n\n")
	}
}

// BuildFilePrompt creates the evaluation prompt for a single-file batch. The
// model must respond with one JSON object.
func BuildFilePrompt(path string, entries []varjudge.VariationEntry, limit int) string {
	var sb strings.Builder
	sb.WriteString("You are comparing independently modified copies (\"variations\") of a codebase against a common original.\n\n")
	writeFileSection(&sb, path, entries, limit)
	sb.WriteString("## Task\n\n")
	sb.WriteString("Evaluate how well each variation handled this file. Score every variation from 1 to 10 and pick the single best one.\n\n")
	sb.WriteString("Respond with exactly one JSON object matching this schema:\n")
	fmt.Fprintf(&sb, `{
  "filePath": %q,
  "synopsis": "One or two sentences comparing the approaches",
  "scores": {"<variationId>": 1-10},
  "winner": "<variationId>"
}
`, path)
	sb.WriteString("\nRules:\n- scores must contain every variation\n- winner must be a key of scores\n")
	return sb.String()
}

// BuildBatchPrompt creates the evaluation prompt for a multi-file batch. The
// model must respond with a JSON array containing one object per file.
func BuildBatchPrompt(paths []string, index *FileIndex, limit int) string {
	var sb strings.Builder
	sb.WriteString("You are comparing independently modified copies (\"variations\") of a codebase against a common original.\n\n")
	for _, path := range paths {
		writeFileSection(&sb, path, index.Entries[path], limit)
	}
	sb.WriteString("## Task\n\n")
	fmt.Fprintf(&sb, "Evaluate how well each variation handled each of the %d files above. Score every variation from 1 to 10 per file and pick the single best variation per file.\n\n", len(paths))
	sb.WriteString("Respond with a JSON array containing exactly one object per file, in the order the files appear above:\n")
	sb.WriteString(`[
  {
    "filePath": "path/from/above",
    "synopsis": "One or two sentences comparing the approaches",
    "scores": {"<variationId>": 1-10},
    "winner": "<variationId>"
  }
]
`)
	sb.WriteString("\nRules:\n- one object per file, no extras\n- scores must contain every variation\n- winner must be a key of scores\n")
	return sb.String()
}

// BuildSynthesisPrompt creates the final ranking prompt from the accumulated
// per-file evidence.
func BuildSynthesisPrompt(variations []string, stats map[string]*variationStats, analyses []varjudge.FileAnalysis) string {
	var sb strings.Builder
	sb.WriteString("You are producing the final verdict on which variation of a codebase best accomplished a task, based on per-file analysis evidence.\n\n")

	sb.WriteString("## Per-variation statistics\n\n")
	for _, id := range variations {
		s := stats[id]
		fmt.Fprintf(&sb, "- %s: average score %.2f across %d files, %d file wins\n", id, s.avg(), s.count, s.wins)
	}

	sb.WriteString("\n## Per-file verdicts\n\n")
	for _, a := range analyses {
		fmt.Fprintf(&sb, "- %s (winner %s): %s\n", a.FilePath, a.Winner, a.Synopsis)
	}

	sb.WriteString("\n## Task\n\n")
	sb.WriteString("Rank the variations from best to worst and summarize the overall comparison.\n\n")
	sb.WriteString("Respond with exactly one JSON object matching this schema:\n")
	sb.WriteString(`{
  "winner": "<variationId>",
  "summary": "Short narrative summary of the comparison",
  "rankings": [
    {
      "variation": "<variationId>",
      "rank": 1,
      "strengths": ["..."],
      "weaknesses": ["..."]
    }
  ]
}
`)
	sb.WriteString("\nRules:\n- rankings must contain every variation exactly once\n- rank 1 is best\n")
	return sb.String()
}
