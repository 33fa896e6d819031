// Package mock provides mock implementations of varjudge interfaces for
// testing.
package mock

import (
	"context"

	"github.com/fwojciec/varjudge"
)

// Compile-time interface verification.
var _ varjudge.Agent = (*Agent)(nil)

// Agent is a mock implementation of varjudge.Agent.
type Agent struct {
	RunFn func(ctx context.Context, prompt, model string) (string, error)
}

func (a *Agent) Run(ctx context.Context, prompt, model string) (string, error) {
	return a.RunFn(ctx, prompt, model)
}
