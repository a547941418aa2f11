package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by `-o` and the config file.
var ValidOutputs = []string{"cli", "cli-more", "json", "tui", "html"}

type Config struct {
	// SourceRoots are directories scanned when resolving class names to
	// definition files. Empty means the current working directory.
	SourceRoots []string `yaml:"sourceRoots"`

	// Extensions overrides the default set of file extensions considered
	// during source lookup (.lua, .h, .hpp, .cpp, .cc).
	Extensions []string `yaml:"extensions"`

	// Output is the default report format when -o is not given.
	Output string `yaml:"output"`

	// Parallelism caps concurrent chain analysis. Zero picks a default
	// based on the machine.
	Parallelism int `yaml:"parallelism"`
}

func Default() *Config {
	return &Config{Output: "cli"}
}

// DefaultPath returns the per-user config location, e.g.
// ~/.config/ldiag/config.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ldiag", "config.yaml"), nil
}

// Load reads the config at path. A missing file is not an error: defaults
// are returned so the tool works with zero setup.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Output == "" {
		cfg.Output = "cli"
	}
	if err := ValidateOutput(cfg.Output); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Parallelism < 0 {
		return nil, fmt.Errorf("config %s: parallelism must be >= 0", path)
	}
	return cfg, nil
}

func ValidateOutput(format string) error {
	for _, v := range ValidOutputs {
		if format == v {
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q (valid: cli, cli-more, json, tui, html)", format)
}
