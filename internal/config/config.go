// Package config holds the engine's configuration: the SLD resolution
// depth bound, evaluation safety limits, and output preferences. It
// follows the teacher's config package shape (a Config struct of nested,
// yaml-tagged sub-configs, a DefaultConfig factory, Load/Save against a
// YAML file, and applyEnvOverrides for environment-variable overrides) but
// scoped to this engine's own domain: there is no LLM, memory-shard, or
// embedding surface here, so none of that sub-config structure is carried
// over.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how a resolved BuildPlan (or proof forest) is
// rendered on stdout.
type OutputFormat string

const (
	FormatJSON       OutputFormat = "json"
	FormatASCIIProof OutputFormat = "ascii-proof"
)

// ResolutionConfig bounds SLD resolution itself.
type ResolutionConfig struct {
	// MaxDepth caps the recursion depth of a single proof search branch.
	MaxDepth int `yaml:"max_depth"`
	// StoreTree makes the resolver keep every diagnostic recorded along
	// dead branches; when false only the first 64 are kept. Proof trees of
	// solutions are returned in full either way. Off by default, matching
	// the teacher's "don't pay for what you don't use" posture around its
	// own kernel memory ceilings.
	StoreTree bool `yaml:"store_tree"`
}

// LimitsConfig caps the size of a single evaluation to keep a runaway or
// adversarial program from exhausting memory.
type LimitsConfig struct {
	// MaxFacts caps the number of clauses a single program may contain.
	MaxFacts int `yaml:"max_facts"`
	// MaxSteps caps the total number of literal-resolution steps across an
	// entire query evaluation, independent of per-branch depth.
	MaxSteps int `yaml:"max_steps"`
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	Format OutputFormat `yaml:"format"`
}

// Config holds the engine's full configuration.
type Config struct {
	Resolution ResolutionConfig `yaml:"resolution"`
	Limits     LimitsConfig     `yaml:"limits"`
	Output     OutputConfig     `yaml:"output"`
}

// DefaultConfig returns the default configuration, matching the original
// implementation's own constants (a 175-deep SLD search, no stored proof
// tree unless a caller needs one).
func DefaultConfig() *Config {
	return &Config{
		Resolution: ResolutionConfig{
			MaxDepth:  175,
			StoreTree: false,
		},
		Limits: LimitsConfig{
			MaxFacts: 100000,
			MaxSteps: 2000000,
		},
		Output: OutputConfig{
			Format: FormatJSON,
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file doesn't exist, then applies environment-variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets MODUS_-prefixed environment variables win over
// both the YAML file and the built-in defaults, mirroring the teacher's
// own override precedence (env beats file beats default).
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MODUS_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Resolution.MaxDepth = n
		}
	}
	if v := os.Getenv("MODUS_STORE_TREE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Resolution.StoreTree = b
		}
	}
	if v := os.Getenv("MODUS_MAX_FACTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Limits.MaxFacts = n
		}
	}
	if v := os.Getenv("MODUS_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Limits.MaxSteps = n
		}
	}
	if v := os.Getenv("MODUS_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = OutputFormat(v)
	}
}
