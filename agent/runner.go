// Package agent invokes external AI CLI tools (claude, codex, gemini) as
// reasoning agents. The prompt is passed on stdin and the tool's
// non-interactive output is returned verbatim.
package agent

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fwojciec/varjudge"
)

// Compile-time interface verification.
var _ varjudge.Agent = (*Runner)(nil)

// Tool describes how to drive one supported reasoning CLI.
type Tool struct {
	Name           string
	Bin            string
	Args           []string // base args for non-interactive, print-style output
	ModelFlag      string   // flag used to select a model, empty if unsupported
	FastModel      string   // default cheap/quick tier
	SynthesisModel string   // default strong tier
}

// toolOrder is the preference order for detection.
var toolOrder = []string{"claude", "codex", "gemini"}

var tools = map[string]Tool{
	"claude": {
		Name:           "claude",
		Bin:            "claude",
		Args:           []string{"-p"},
		ModelFlag:      "--model",
		FastModel:      "haiku",
		SynthesisModel: "sonnet",
	},
	"codex": {
		Name:           "codex",
		Bin:            "codex",
		Args:           []string{"exec"},
		ModelFlag:      "--model",
		FastModel:      "gpt-5-mini",
		SynthesisModel: "gpt-5",
	},
	"gemini": {
		Name:           "gemini",
		Bin:            "gemini",
		Args:           []string{"-p"},
		ModelFlag:      "--model",
		FastModel:      "gemini-2.5-flash",
		SynthesisModel: "gemini-2.5-pro",
	},
}

// ToolNamed returns the registered tool with the given name.
func ToolNamed(name string) (Tool, bool) {
	tool, ok := tools[name]
	return tool, ok
}

// ExitError records a nonzero exit from an agent process.
type ExitError struct {
	Bin    string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("agent: %s failed: %s", e.Bin, e.Stderr)
	}
	return fmt.Sprintf("agent: %s failed: %v", e.Bin, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner executes a reasoning CLI as a subprocess.
type Runner struct {
	tool Tool
}

// NewRunner creates a Runner for the given tool.
func NewRunner(tool Tool) *Runner {
	return &Runner{tool: tool}
}

// Tool returns the tool this runner drives.
func (r *Runner) Tool() Tool { return r.tool }

// Run sends the prompt to the CLI and returns its output. If the call fails
// in a way attributable to an unsupported or misnamed model argument, it is
// retried once with the model selection stripped, falling back to the tool's
// own default model.
func (r *Runner) Run(ctx context.Context, prompt, model string) (string, error) {
	out, err := r.run(ctx, prompt, model)
	if err == nil {
		return out, nil
	}
	if model == "" || ctx.Err() != nil || !retryableModelError(err) {
		return "", err
	}
	return r.run(ctx, prompt, "")
}

func (r *Runner) run(ctx context.Context, prompt, model string) (string, error) {
	args := append([]string{}, r.tool.Args...)
	if model != "" && r.tool.ModelFlag != "" {
		args = append(args, r.tool.ModelFlag, model)
	}

	cmd := exec.CommandContext(ctx, r.tool.Bin, args...)
	cmd.Stdin = strings.NewReader(prompt)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExitError{
				Bin:    r.tool.Bin,
				Stderr: strings.TrimSpace(string(exitErr.Stderr)),
				Err:    err,
			}
		}
		return "", fmt.Errorf("agent: running %s: %w", r.tool.Bin, err)
	}
	return string(output), nil
}

// retryableModelError reports whether err plausibly came from a rejected
// model argument. CLI tools disagree on wording, so any nonzero exit
// qualifies, as does any other error mentioning "model".
func retryableModelError(err error) bool {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "model")
}
