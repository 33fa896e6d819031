package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/varjudge"
	"github.com/fwojciec/varjudge/config"
	"github.com/fwojciec/varjudge/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariationFlags_Set(t *testing.T) {
	t.Parallel()

	vars := variationFlags{}
	require.NoError(t, vars.Set("var-1=/tmp/a"))
	require.NoError(t, vars.Set("var-2=/tmp/b"))

	assert.Equal(t, map[string]string{"var-1": "/tmp/a", "var-2": "/tmp/b"}, map[string]string(vars))
}

func TestVariationFlags_SetInvalid(t *testing.T) {
	t.Parallel()

	vars := variationFlags{}
	assert.Error(t, vars.Set("no-equals-sign"))
	assert.Error(t, vars.Set("=path-only"))
	assert.Error(t, vars.Set("id-only="))
}

func TestMergeConfig_FlagsWin(t *testing.T) {
	t.Parallel()

	project := &config.Project{
		Original:       "/proj/original",
		Variations:     map[string]string{"a": "/proj/a"},
		Agent:          "claude",
		FastModel:      "haiku",
		SynthesisModel: "sonnet",
		BatchSize:      3,
	}
	merged := mergeConfig(project, judgeConfig{
		original:  "/flag/original",
		agentName: "gemini",
		batchSize: 10,
	})

	assert.Equal(t, "/flag/original", merged.original)
	assert.Equal(t, map[string]string{"a": "/proj/a"}, merged.variations)
	assert.Equal(t, "gemini", merged.agentName)
	assert.Equal(t, "haiku", merged.fastModel)
	assert.Equal(t, 10, merged.batchSize)
}

func TestMergeConfig_EmptyFlagsKeepProject(t *testing.T) {
	t.Parallel()

	project := &config.Project{Original: "/proj/original", Agent: "codex"}
	merged := mergeConfig(project, judgeConfig{})

	assert.Equal(t, "/proj/original", merged.original)
	assert.Equal(t, "codex", merged.agentName)
}

func judgeTestApp(agent varjudge.Agent) *JudgeApp {
	return &JudgeApp{
		Agent: agent,
		Differ: &mock.VariationDiffer{
			DiffFn: func(ctx context.Context, originalRoot, variationRoot string) ([]varjudge.FileDiff, error) {
				return []varjudge.FileDiff{{
					FilePath: "main.go",
					Status:   varjudge.StatusModified,
					Patch:    "--- a/main.go\n+++ b/main.go\n",
				}}, nil
			},
		},
		Original:   "/tmp/original",
		Variations: map[string]string{"var-1": "/tmp/v1", "var-2": "/tmp/v2"},
	}
}

func scriptedAgent(t *testing.T) varjudge.Agent {
	t.Helper()
	return &mock.Agent{
		RunFn: func(ctx context.Context, prompt, model string) (string, error) {
			if strings.Contains(prompt, "final verdict") {
				return `{
					"winner": "var-2",
					"summary": "var-2 was stronger.",
					"rankings": [
						{"variation": "var-2", "rank": 1, "strengths": ["clean"], "weaknesses": []},
						{"variation": "var-1", "rank": 2, "strengths": [], "weaknesses": ["noisy"]}
					]
				}`, nil
			}
			return `{
				"filePath": "main.go",
				"synopsis": "var-2 simplifies the handler.",
				"scores": {"var-1": 5, "var-2": 8},
				"winner": "var-2"
			}`, nil
		},
	}
}

func TestJudgeApp_Run(t *testing.T) {
	t.Parallel()

	app := judgeTestApp(scriptedAgent(t))
	result, err := app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "var-2", result.Winner)
	require.Len(t, result.Rankings, 2)
	assert.Equal(t, "var-2", result.Rankings[0].Variation)
}

func TestJudgeApp_RunRequiresOriginal(t *testing.T) {
	t.Parallel()

	app := judgeTestApp(scriptedAgent(t))
	app.Original = ""

	_, err := app.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoOriginal)
}

func TestJudgeApp_RunRequiresVariations(t *testing.T) {
	t.Parallel()

	app := judgeTestApp(scriptedAgent(t))
	app.Variations = nil

	_, err := app.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoVariations)
}

func TestJudgeApp_StreamReachesTerminalPhase(t *testing.T) {
	t.Parallel()

	app := judgeTestApp(scriptedAgent(t))
	ch, err := app.Stream(context.Background())
	require.NoError(t, err)

	var last varjudge.JudgeProgress
	for p := range ch {
		last = p
	}
	assert.Equal(t, varjudge.PhaseComplete, last.Phase)
	require.NotNil(t, last.Result)
	assert.Equal(t, "var-2", last.Result.Winner)
}

func TestWriteResult_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	result := &varjudge.JudgeResult{
		Winner: "var-2",
		Rankings: []varjudge.JudgeRanking{
			{Variation: "var-2", Rank: 1, FileWins: 3, AvgScore: 8.5},
			{Variation: "var-1", Rank: 2, FileWins: 0, AvgScore: 5.25},
		},
		Summary: "var-2 was stronger.",
	}
	require.NoError(t, WriteResult(&buf, result, false))

	out := buf.String()
	assert.Contains(t, out, "Winner: var-2")
	assert.Contains(t, out, "1. var-2  avg 8.50  wins 3")
	assert.Contains(t, out, "2. var-1  avg 5.25  wins 0")
	assert.Contains(t, out, "var-2 was stronger.")
}

func TestWriteResult_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	result := &varjudge.JudgeResult{Winner: "var-1"}
	require.NoError(t, WriteResult(&buf, result, true))

	var decoded varjudge.JudgeResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "var-1", decoded.Winner)
}

func TestCloneApp_Run(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var gotOriginal string
	var gotN int
	app := &CloneApp{
		Workspace: &mock.Workspace{
			CloneFn: func(ctx context.Context, originalRoot string, n int) ([]string, error) {
				gotOriginal = originalRoot
				gotN = n
				return []string{"/tmp/original-var-1-ab12cd34", "/tmp/original-var-2-ef56ab78"}, nil
			},
		},
		Original: "/tmp/original",
		N:        2,
		Out:      &buf,
	}

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, "/tmp/original", gotOriginal)
	assert.Equal(t, 2, gotN)
	assert.Equal(t, "/tmp/original-var-1-ab12cd34\n/tmp/original-var-2-ef56ab78\n", buf.String())
}

func TestCloneApp_RunError(t *testing.T) {
	t.Parallel()

	app := &CloneApp{
		Workspace: &mock.Workspace{
			CloneFn: func(ctx context.Context, originalRoot string, n int) ([]string, error) {
				return nil, errors.New("disk full")
			},
		},
		Original: "/tmp/original",
		N:        3,
		Out:      &bytes.Buffer{},
	}

	assert.EqualError(t, app.Run(context.Background()), "disk full")
}

func TestPromoteApp_Run(t *testing.T) {
	t.Parallel()

	var gotOriginal, gotVariation string
	app := &PromoteApp{
		Workspace: &mock.Workspace{
			PromoteFn: func(ctx context.Context, originalRoot, variationRoot string) error {
				gotOriginal = originalRoot
				gotVariation = variationRoot
				return nil
			},
		},
		Original:  "/tmp/original",
		Variation: "/tmp/original-var-2-ef56ab78",
	}

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, "/tmp/original", gotOriginal)
	assert.Equal(t, "/tmp/original-var-2-ef56ab78", gotVariation)
}
