package gemini_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/varjudge/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgent_PassesModelThrough(t *testing.T) {
	t.Parallel()

	var gotModel, gotPrompt string
	client := &gemini.MockTextGenerator{
		GenerateTextFn: func(ctx context.Context, model, prompt string) (string, error) {
			gotModel = model
			gotPrompt = prompt
			return `{"ok": true}`, nil
		},
	}

	a := gemini.NewAgent(client)
	out, err := a.Run(context.Background(), "judge this", "gemini-3-pro-preview")

	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
	assert.Equal(t, "gemini-3-pro-preview", gotModel)
	assert.Equal(t, "judge this", gotPrompt)
}

func TestAgent_EmptyModelUsesDefault(t *testing.T) {
	t.Parallel()

	var gotModel string
	client := &gemini.MockTextGenerator{
		GenerateTextFn: func(ctx context.Context, model, prompt string) (string, error) {
			gotModel = model
			return "", nil
		},
	}

	a := gemini.NewAgent(client)
	_, err := a.Run(context.Background(), "p", "")

	require.NoError(t, err)
	assert.Equal(t, gemini.DefaultFastModel, gotModel)
}

func TestAgent_CustomDefaultModel(t *testing.T) {
	t.Parallel()

	var gotModel string
	client := &gemini.MockTextGenerator{
		GenerateTextFn: func(ctx context.Context, model, prompt string) (string, error) {
			gotModel = model
			return "", nil
		},
	}

	a := gemini.NewAgent(client, gemini.WithDefaultModel("gemini-3-pro-preview"))
	_, err := a.Run(context.Background(), "p", "")

	require.NoError(t, err)
	assert.Equal(t, "gemini-3-pro-preview", gotModel)
}

func TestAgent_PropagatesError(t *testing.T) {
	t.Parallel()

	expectedErr := errors.New("rate limited")
	client := &gemini.MockTextGenerator{
		GenerateTextFn: func(ctx context.Context, model, prompt string) (string, error) {
			return "", expectedErr
		},
	}

	a := gemini.NewAgent(client)
	_, err := a.Run(context.Background(), "p", "m")

	assert.ErrorIs(t, err, expectedErr)
}
