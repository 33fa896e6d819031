package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fwojciec/varjudge"
	"github.com/fwojciec/varjudge/jsonx"
)

// variationStats holds the locally derived aggregates for one variation.
// These are the only figures trusted for fileWins and avgScore; whatever the
// synthesis response claims is discarded.
type variationStats struct {
	total float64
	count int
	wins  int
}

func (s *variationStats) avg() float64 {
	if s.count == 0 {
		return 0
	}
	return math.Round(s.total/float64(s.count)*100) / 100
}

// computeStats derives per-variation totals, counts and win counts from the
// FileAnalysis evidence. Pure function of its input.
func computeStats(variations []string, analyses []varjudge.FileAnalysis) map[string]*variationStats {
	stats := make(map[string]*variationStats, len(variations))
	for _, id := range variations {
		stats[id] = &variationStats{}
	}
	for _, a := range analyses {
		for id, score := range a.Scores {
			if s, ok := stats[id]; ok {
				s.total += score
				s.count++
			}
		}
		if s, ok := stats[a.Winner]; ok {
			s.wins++
		}
	}
	return stats
}

// synthesisVerdict mirrors the JSON shape the synthesis model must return.
type synthesisVerdict struct {
	Winner   string `json:"winner"`
	Summary  string `json:"summary"`
	Rankings []struct {
		Variation  string   `json:"variation"`
		Rank       int      `json:"rank"`
		Strengths  []string `json:"strengths"`
		Weaknesses []string `json:"weaknesses"`
	} `json:"rankings"`
}

// synthesize issues the one final ranking call and assembles the JudgeResult.
// Unlike per-file batches, a failure here is fatal: there is no meaningful
// partial synthesis.
func (o *Orchestrator) synthesize(ctx context.Context, variations []string, analyses []varjudge.FileAnalysis) (*varjudge.JudgeResult, error) {
	stats := computeStats(variations, analyses)
	prompt := BuildSynthesisPrompt(variations, stats, analyses)

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	text, err := o.agent.Run(callCtx, prompt, o.synthesisModel)
	if err != nil {
		return nil, fmt.Errorf("judge: synthesis call failed: %w", err)
	}

	raw, err := jsonx.Extract(text)
	if err != nil {
		return nil, fmt.Errorf("judge: synthesis response: %w", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		return nil, fmt.Errorf("judge: synthesis response must be a JSON object")
	}
	var verdict synthesisVerdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return nil, fmt.Errorf("judge: decoding synthesis response: %w", err)
	}
	if err := verdict.validate(variations); err != nil {
		return nil, err
	}

	// Order by the model's ranks, then reassign 1..N so ranks are always
	// unique and contiguous regardless of what the model produced.
	sort.SliceStable(verdict.Rankings, func(i, j int) bool {
		return verdict.Rankings[i].Rank < verdict.Rankings[j].Rank
	})

	rankings := make([]varjudge.JudgeRanking, 0, len(verdict.Rankings))
	for i, r := range verdict.Rankings {
		s := stats[r.Variation]
		rankings = append(rankings, varjudge.JudgeRanking{
			Variation:  r.Variation,
			Rank:       i + 1,
			Strengths:  r.Strengths,
			Weaknesses: r.Weaknesses,
			FileWins:   s.wins,
			AvgScore:   s.avg(),
		})
	}

	return &varjudge.JudgeResult{
		Winner:       verdict.Winner,
		Rankings:     rankings,
		Summary:      verdict.Summary,
		FileAnalyses: analyses,
	}, nil
}

func (v *synthesisVerdict) validate(variations []string) error {
	known := make(map[string]bool, len(variations))
	for _, id := range variations {
		known[id] = false
	}
	if _, ok := known[v.Winner]; !ok {
		return fmt.Errorf("judge: synthesis names unknown winner %q", v.Winner)
	}
	for _, r := range v.Rankings {
		covered, ok := known[r.Variation]
		if !ok {
			return fmt.Errorf("judge: synthesis ranks unknown variation %q", r.Variation)
		}
		if covered {
			return fmt.Errorf("judge: synthesis ranks %q twice", r.Variation)
		}
		known[r.Variation] = true
	}
	for _, id := range variations {
		if !known[id] {
			return fmt.Errorf("judge: synthesis ranking omits %q", id)
		}
	}
	return nil
}
