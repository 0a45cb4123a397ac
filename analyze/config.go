package analyze

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the configuration file looked up in the working
// directory when no explicit path is given.
const ConfigFileName = ".pylens.toml"

// RenamePair configures one rename pass.
type RenamePair struct {
	Old string `toml:"old"`
	New string `toml:"new"`
}

// Config drives the engine: which passes run, in which order, which
// paths are skipped during directory scans.
type Config struct {
	Passes  []string     `toml:"passes"`
	Ignore  []string     `toml:"ignore"`
	Renames []RenamePair `toml:"rename"`
}

// DefaultConfig returns the canonical optimization configuration.
func DefaultConfig() Config {
	return Config{
		Passes: []string{
			"constant-folding",
			"expression-simplification",
			"dead-code-elimination",
			"unused-variable-removal",
		},
	}
}

// DefaultConfigTOML is the content written by the init command.
const DefaultConfigTOML = `# pylens configuration

passes = [
  "constant-folding",
  "expression-simplification",
  "dead-code-elimination",
  "unused-variable-removal",
]

ignore = [
  "venv/**",
  "**/__pycache__/**",
]

# [[rename]]
# old = "legacy_name"
# new = "new_name"
`

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return config, nil
}

// LoadConfigOrDefault loads path when given, otherwise the config file
// in the working directory when present, otherwise the defaults.
func LoadConfigOrDefault(path string) (Config, error) {
	if path != "" {
		return LoadConfig(path)
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return LoadConfig(ConfigFileName)
	}
	return DefaultConfig(), nil
}
