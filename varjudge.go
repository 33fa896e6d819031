// Package varjudge provides domain types for comparing independently
// modified copies of a codebase ("variations") against a common original.
package varjudge

import "context"

// FileStatus describes how a file changed between the original tree and a
// variation tree.
type FileStatus string

// File statuses.
const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
)

// Change identifies a single changed file within a change set.
type Change struct {
	Path   string     `json:"path"`
	Status FileStatus `json:"status"`
}

// FileDiff represents the full change one variation made to a single file.
type FileDiff struct {
	FilePath string     `json:"filePath"`
	Status   FileStatus `json:"status"`
	Patch    string     `json:"patch"`    // unified diff of original -> modified
	Original string     `json:"original"` // empty for added files
	Modified string     `json:"modified"` // empty for deleted files
}

// VariationDiffs holds every file change one variation made to the original.
type VariationDiffs struct {
	VariationID string     `json:"variationId"`
	Diffs       []FileDiff `json:"diffs"`
}

// VariationEntry pairs a variation with its diff for a single file.
// Diff is nil when the variation left the file untouched.
type VariationEntry struct {
	VariationID string    `json:"variationId"`
	Diff        *FileDiff `json:"diff,omitempty"`
}

// Agent is an external reasoning capability. It accepts a prompt and a model
// identifier and returns freeform text expected to contain JSON somewhere in
// it. An empty model selects the agent's own default.
type Agent interface {
	Run(ctx context.Context, prompt, model string) (string, error)
}

// VariationDiffer produces the change set between an original tree and a
// variation tree, one FileDiff per changed file, sorted by path.
type VariationDiffer interface {
	Diff(ctx context.Context, originalRoot, variationRoot string) ([]FileDiff, error)
}

// Workspace manages variation working directories for a judging run.
type Workspace interface {
	// Clone creates n variation copies of the tree at originalRoot and
	// returns their paths.
	Clone(ctx context.Context, originalRoot string, n int) ([]string, error)
	// Promote copies a variation's changes back over the original tree.
	Promote(ctx context.Context, originalRoot, variationRoot string) error
}
