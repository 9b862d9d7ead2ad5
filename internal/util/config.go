package util

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	InputFormat  string `toml:"input_format"`
	OutputFormat string `toml:"output_format"`

	// Builtin names to install as not-implemented placeholders. An explicit
	// opt-in: names listed here resolve but fail with NotImplementedError
	// until an embedder registers a real implementation over them.
	StubBuiltins []string `toml:"stub_builtins"`

	// Fractional digits kept by division; 0 means the package default.
	DivisionPrecision int `toml:"division_precision"`
}

// LoadConfiguration reads a TOML configuration file. A missing file is not
// an error; the zero Configuration is returned.
func LoadConfiguration(path string) (Configuration, error) {
	var cfg Configuration
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load configuration %s: %w", path, err)
	}
	return cfg, nil
}
