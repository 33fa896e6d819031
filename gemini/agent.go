package gemini

import (
	"context"

	"github.com/fwojciec/varjudge"
)

// Compile-time interface verification.
var _ varjudge.Agent = (*Agent)(nil)

// TextGenerator abstracts the Gemini API for testing.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// Agent adapts a Gemini client to the varjudge.Agent contract.
type Agent struct {
	client       TextGenerator
	defaultModel string
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithDefaultModel sets the model used when a call does not select one.
func WithDefaultModel(model string) AgentOption {
	return func(a *Agent) { a.defaultModel = model }
}

// NewAgent creates a new Agent.
func NewAgent(client TextGenerator, opts ...AgentOption) *Agent {
	a := &Agent{
		client:       client,
		defaultModel: DefaultFastModel,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run sends the prompt to the given model, falling back to the default model
// when none is selected.
func (a *Agent) Run(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = a.defaultModel
	}
	return a.client.GenerateText(ctx, model, prompt)
}

// MockTextGenerator is a mock implementation of TextGenerator for testing.
type MockTextGenerator struct {
	GenerateTextFn func(ctx context.Context, model, prompt string) (string, error)
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	return m.GenerateTextFn(ctx, model, prompt)
}
