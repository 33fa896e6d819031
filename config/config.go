// Package config loads project configuration for varjudge runs.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the project file looked up in the working directory.
const DefaultPath = "varjudge.yaml"

// Project configures a judging run. Zero values defer to flag defaults.
type Project struct {
	Original       string            `yaml:"original"`
	Variations     map[string]string `yaml:"variations"` // variation ID -> path
	Agent          string            `yaml:"agent"`      // claude | codex | gemini | api
	FastModel      string            `yaml:"fast_model"`
	SynthesisModel string            `yaml:"synthesis_model"`
	BatchSize      int               `yaml:"batch_size"`
}

// Load reads a project file. A missing file is not an error; it yields an
// empty Project so flags alone can configure a run.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Project{}, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &p, nil
}
