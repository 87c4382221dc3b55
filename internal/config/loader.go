// internal/config/loader.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the default config file name, looked up in the working
// directory.
const ConfigFileName = "ore.toml"

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "ORE_"

// Loader loads configuration from file, environment, and applies defaults.
type Loader struct {
	configPath string // explicit config path (empty = use ConfigFileName if present)
	environ    map[string]string
}

// NewLoader creates a new config loader. An explicit configPath must exist.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// WithEnvironment replaces the process environment, for tests.
func (l *Loader) WithEnvironment(environ map[string]string) *Loader {
	l.environ = environ
	return l
}

// Load loads configuration with priority: defaults < file < env.
// CLI flags are applied by the caller.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	fileCfg, err := l.loadFile()
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		if err := mergeFileConfig(cfg, fileCfg); err != nil {
			return nil, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if l.environ != nil {
		opts.Environment = l.environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}

	return cfg, nil
}

// Path returns the config file the loader reads, or "" when none applies.
func (l *Loader) Path() string {
	if l.configPath != "" {
		return l.configPath
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	return ""
}

// loadFile loads and parses the config file.
// Returns nil if no default config file exists (not an error).
func (l *Loader) loadFile() (*FileConfig, error) {
	configPath := l.configPath
	if configPath == "" {
		configPath = ConfigFileName
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && l.configPath == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg FileConfig
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("invalid TOML in %s: %w", configPath, err)
	}

	return &fileCfg, nil
}

// Encode writes cfg to w as TOML.
func Encode(w io.Writer, cfg *Config) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(ToFile(cfg)); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
