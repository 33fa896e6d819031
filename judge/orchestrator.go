package judge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/varjudge"
)

// Tunable defaults for the judging protocol.
const (
	DefaultBatchSize   = 5
	DefaultPatchLimit  = 1500 // characters of patch text per variation per file
	DefaultCallTimeout = 180 * time.Second

	// neutralScore is assigned to every variation when a batch evaluation
	// cannot be completed.
	neutralScore = 5
)

// Sentinel errors for unrecoverable run failures.
var (
	ErrNoAgent      = errors.New("judge: no reasoning agent available")
	ErrNoVariations = errors.New("judge: no variations to compare")
)

// Orchestrator drives a judging run: batching, the evaluation protocol,
// fallback on partial failure, progress reporting and final synthesis.
// Batches are processed strictly sequentially so progress events follow
// file-path order and a rate-limited agent is never hit concurrently.
type Orchestrator struct {
	agent          varjudge.Agent
	fastModel      string
	synthesisModel string
	batchSize      int
	patchLimit     int
	callTimeout    time.Duration
	progress       func(varjudge.JudgeProgress)
	fallbackWinner func(variations []string) string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithBatchSize sets how many files are evaluated per agent call.
func WithBatchSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithPatchLimit bounds the patch text included per variation per file.
func WithPatchLimit(n int) Option {
	return func(o *Orchestrator) { o.patchLimit = n }
}

// WithCallTimeout bounds the wall-clock time of each agent call.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// WithModels sets the fast (per-file) and synthesis (final ranking) model
// tiers. Per-file misjudgments average out across many files; the single
// synthesis call has outsized leverage and warrants the stronger tier.
func WithModels(fast, synthesis string) Option {
	return func(o *Orchestrator) {
		o.fastModel = fast
		o.synthesisModel = synthesis
	}
}

// WithProgress registers a listener invoked with a snapshot after every
// batch, at the synthesis transition and at the terminal state.
func WithProgress(fn func(varjudge.JudgeProgress)) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithFallbackWinner overrides how the winner is chosen for fallback
// analyses. The default picks the first variation in sorted-ID order.
func WithFallbackWinner(fn func(variations []string) string) Option {
	return func(o *Orchestrator) { o.fallbackWinner = fn }
}

// New creates an Orchestrator using the given reasoning agent.
func New(agent varjudge.Agent, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		agent:       agent,
		batchSize:   DefaultBatchSize,
		patchLimit:  DefaultPatchLimit,
		callTimeout: DefaultCallTimeout,
		fallbackWinner: func(variations []string) string {
			return variations[0]
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the full judging pipeline over the supplied variation diffs
// and returns the final result. Batch-level failures are absorbed via
// neutral fallback analyses; a synthesis failure is fatal.
func (o *Orchestrator) Run(ctx context.Context, diffs []varjudge.VariationDiffs) (*varjudge.JudgeResult, error) {
	if o.agent == nil {
		o.emitError(nil, 0, ErrNoAgent)
		return nil, ErrNoAgent
	}

	index := BuildIndex(diffs)
	if len(index.Variations) == 0 {
		o.emitError(nil, 0, ErrNoVariations)
		return nil, ErrNoVariations
	}

	total := len(index.Paths)
	analyses := make([]varjudge.FileAnalysis, 0, total)

	for start := 0; start < total; start += o.batchSize {
		end := min(start+o.batchSize, total)
		batch := index.Paths[start:end]

		out, err := o.evaluateBatch(ctx, index, batch)
		if err != nil {
			if ctx.Err() != nil {
				o.emitError(analyses, total, ctx.Err())
				return nil, ctx.Err()
			}
			out = o.fallbackAnalyses(index.Variations, batch, err)
		}
		analyses = append(analyses, out...)

		o.emit(varjudge.JudgeProgress{
			Phase:          varjudge.PhaseAnalyzing,
			CurrentFile:    batch[len(batch)-1],
			CompletedFiles: len(analyses),
			TotalFiles:     total,
			FileAnalyses:   snapshot(analyses),
		})
	}

	o.emit(varjudge.JudgeProgress{
		Phase:          varjudge.PhaseSynthesizing,
		CompletedFiles: total,
		TotalFiles:     total,
		FileAnalyses:   snapshot(analyses),
	})

	result, err := o.synthesize(ctx, index.Variations, analyses)
	if err != nil {
		o.emitError(analyses, total, err)
		return nil, err
	}

	o.emit(varjudge.JudgeProgress{
		Phase:          varjudge.PhaseComplete,
		CompletedFiles: total,
		TotalFiles:     total,
		FileAnalyses:   snapshot(analyses),
		Result:         result,
	})
	return result, nil
}

// Stream runs the pipeline in a goroutine and returns a channel of progress
// snapshots. The channel closes after the terminal snapshot (complete or
// error). CLI text output, the TUI and the HTTP event stream all consume
// this primitive.
func (o *Orchestrator) Stream(ctx context.Context, diffs []varjudge.VariationDiffs) <-chan varjudge.JudgeProgress {
	ch := make(chan varjudge.JudgeProgress)
	clone := *o
	prev := o.progress
	clone.progress = func(p varjudge.JudgeProgress) {
		if prev != nil {
			prev(p)
		}
		select {
		case ch <- p:
		case <-ctx.Done():
		}
	}
	go func() {
		defer close(ch)
		// The error is already reflected in the terminal snapshot.
		_, _ = clone.Run(ctx, diffs)
	}()
	return ch
}

// evaluateBatch issues one evaluation call. A single-file batch uses the
// object schema; a larger batch uses the array schema. The two shapes parse
// differently and must not be collapsed.
func (o *Orchestrator) evaluateBatch(ctx context.Context, index *FileIndex, batch []string) ([]varjudge.FileAnalysis, error) {
	var prompt string
	if len(batch) == 1 {
		prompt = BuildFilePrompt(batch[0], index.Entries[batch[0]], o.patchLimit)
	} else {
		prompt = BuildBatchPrompt(batch, index, o.patchLimit)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	text, err := o.agent.Run(callCtx, prompt, o.fastModel)
	if err != nil {
		return nil, fmt.Errorf("judge: evaluating batch starting at %s: %w", batch[0], err)
	}
	return parseFileVerdicts(text, batch, index.Variations)
}

// fallbackAnalyses synthesizes neutral verdicts for every file in a failed
// batch. One bad batch must never fail the whole run.
func (o *Orchestrator) fallbackAnalyses(variations, batch []string, cause error) []varjudge.FileAnalysis {
	winner := o.fallbackWinner(variations)
	out := make([]varjudge.FileAnalysis, 0, len(batch))
	for _, path := range batch {
		scores := make(map[string]float64, len(variations))
		for _, id := range variations {
			scores[id] = neutralScore
		}
		out = append(out, varjudge.FileAnalysis{
			FilePath: path,
			Synopsis: fmt.Sprintf("Analysis failed (%v); neutral scores assigned.", cause),
			Scores:   scores,
			Winner:   winner,
		})
	}
	return out
}

func (o *Orchestrator) emit(p varjudge.JudgeProgress) {
	if o.progress != nil {
		o.progress(p)
	}
}

func (o *Orchestrator) emitError(analyses []varjudge.FileAnalysis, total int, err error) {
	o.emit(varjudge.JudgeProgress{
		Phase:          varjudge.PhaseError,
		CompletedFiles: len(analyses),
		TotalFiles:     total,
		FileAnalyses:   snapshot(analyses),
		Error:          err.Error(),
	})
}

// snapshot copies the accumulated analyses so listeners cannot observe later
// mutation.
func snapshot(analyses []varjudge.FileAnalysis) []varjudge.FileAnalysis {
	return append([]varjudge.FileAnalysis(nil), analyses...)
}
