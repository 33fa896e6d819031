package varjudge

// FileAnalysis is the per-file verdict across all variations. It is produced
// either by direct evaluation or by failure-fallback synthesis.
type FileAnalysis struct {
	FilePath string             `json:"filePath"`
	Synopsis string             `json:"synopsis"`
	Scores   map[string]float64 `json:"scores"` // variation ID -> 1..10
	Winner   string             `json:"winner"`
}

// JudgeRanking places one variation in the final ranking. FileWins and
// AvgScore are always recomputed locally from the FileAnalysis evidence, not
// taken from the synthesis response.
type JudgeRanking struct {
	Variation  string   `json:"variation"`
	Rank       int      `json:"rank"` // 1-based, unique, contiguous
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	FileWins   int      `json:"fileWins"`
	AvgScore   float64  `json:"avgScore"`
}

// JudgeResult is the terminal output of a judging run.
type JudgeResult struct {
	Winner       string         `json:"winner"`
	Rankings     []JudgeRanking `json:"rankings"`
	Summary      string         `json:"summary"`
	FileAnalyses []FileAnalysis `json:"fileAnalyses"`
}

// JudgePhase identifies the stage a judging run is in.
type JudgePhase string

// Judging phases.
const (
	PhaseAnalyzing    JudgePhase = "analyzing"
	PhaseSynthesizing JudgePhase = "synthesizing"
	PhaseComplete     JudgePhase = "complete"
	PhaseError        JudgePhase = "error"
)

// JudgeProgress is a transient snapshot of a judging run, emitted at every
// batch boundary and at the synthesis transition. It is never persisted.
type JudgeProgress struct {
	Phase          JudgePhase     `json:"phase"`
	CurrentFile    string         `json:"currentFile,omitempty"`
	CompletedFiles int            `json:"completedFiles"`
	TotalFiles     int            `json:"totalFiles"`
	FileAnalyses   []FileAnalysis `json:"fileAnalyses"`
	Result         *JudgeResult   `json:"result,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Ranking returns the ranking entry for the given variation.
func (r *JudgeResult) Ranking(variation string) (JudgeRanking, bool) {
	for _, rk := range r.Rankings {
		if rk.Variation == variation {
			return rk, true
		}
	}
	return JudgeRanking{}, false
}
