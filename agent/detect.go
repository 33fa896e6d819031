package agent

import (
	"errors"
	"os/exec"
)

// ErrNoTools is returned when no supported reasoning CLI is installed.
var ErrNoTools = errors.New("agent: no reasoning CLI found on PATH")

// Capabilities lists the reasoning CLIs found on the host. It is an explicit
// value owned by the caller, not a hidden process-wide global, so tests can
// inject fakes.
type Capabilities struct {
	Tools []Tool
}

// Detect probes for supported reasoning CLIs in preference order. lookPath
// may be nil, in which case exec.LookPath is used; tests inject a fake.
func Detect(lookPath func(string) (string, error)) Capabilities {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	var caps Capabilities
	for _, name := range toolOrder {
		if _, err := lookPath(name); err == nil {
			caps.Tools = append(caps.Tools, tools[name])
		}
	}
	return caps
}

// First returns the preferred available tool.
func (c Capabilities) First() (Tool, error) {
	if len(c.Tools) == 0 {
		return Tool{}, ErrNoTools
	}
	return c.Tools[0], nil
}

// Named returns the available tool with the given name.
func (c Capabilities) Named(name string) (Tool, bool) {
	for _, tool := range c.Tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return Tool{}, false
}
