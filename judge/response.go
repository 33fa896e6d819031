package judge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/varjudge"
	"github.com/fwojciec/varjudge/jsonx"
)

// fileVerdict mirrors the JSON shape the model must return for one file.
type fileVerdict struct {
	FilePath string             `json:"filePath"`
	Synopsis string             `json:"synopsis"`
	Scores   map[string]float64 `json:"scores"`
	Winner   string             `json:"winner"`
}

// parseFileVerdicts extracts and validates the model's response for a batch.
// A single-file batch must answer with one object; a multi-file batch with an
// array holding exactly one object per file, and every verdict must score
// the full variation set. Anything else is a parse failure, which the
// orchestrator converts into fallback analyses.
func parseFileVerdicts(text string, batch, variations []string) ([]varjudge.FileAnalysis, error) {
	raw, err := jsonx.Extract(text)
	if err != nil {
		return nil, err
	}

	var verdicts []fileVerdict
	if len(batch) == 1 {
		if !strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
			return nil, fmt.Errorf("judge: single-file response must be a JSON object")
		}
		var v fileVerdict
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("judge: decoding file verdict: %w", err)
		}
		if v.FilePath == "" {
			v.FilePath = batch[0]
		}
		verdicts = []fileVerdict{v}
	} else {
		if !strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
			return nil, fmt.Errorf("judge: batch response must be a JSON array")
		}
		if err := json.Unmarshal(raw, &verdicts); err != nil {
			return nil, fmt.Errorf("judge: decoding batch verdicts: %w", err)
		}
	}

	byPath := make(map[string]fileVerdict, len(verdicts))
	for _, v := range verdicts {
		if err := v.validate(variations); err != nil {
			return nil, err
		}
		if _, ok := byPath[v.FilePath]; ok {
			return nil, fmt.Errorf("judge: duplicate verdict for %s", v.FilePath)
		}
		byPath[v.FilePath] = v
	}

	analyses := make([]varjudge.FileAnalysis, 0, len(batch))
	for _, path := range batch {
		v, ok := byPath[path]
		if !ok {
			return nil, fmt.Errorf("judge: response missing verdict for %s", path)
		}
		analyses = append(analyses, varjudge.FileAnalysis{
			FilePath: v.FilePath,
			Synopsis: v.Synopsis,
			Scores:   v.Scores,
			Winner:   v.Winner,
		})
	}
	if len(verdicts) != len(batch) {
		return nil, fmt.Errorf("judge: expected %d verdicts, got %d", len(batch), len(verdicts))
	}
	return analyses, nil
}

func (v fileVerdict) validate(variations []string) error {
	if v.FilePath == "" {
		return fmt.Errorf("judge: verdict missing filePath")
	}
	for _, id := range variations {
		score, ok := v.Scores[id]
		if !ok {
			return fmt.Errorf("judge: verdict for %s does not score %q", v.FilePath, id)
		}
		if score < 1 || score > 10 {
			return fmt.Errorf("judge: verdict for %s scores %q out of range: %v", v.FilePath, id, score)
		}
	}
	if len(v.Scores) != len(variations) {
		return fmt.Errorf("judge: verdict for %s scores unknown variations", v.FilePath)
	}
	if _, ok := v.Scores[v.Winner]; !ok {
		return fmt.Errorf("judge: verdict for %s names winner %q absent from scores", v.FilePath, v.Winner)
	}
	return nil
}
