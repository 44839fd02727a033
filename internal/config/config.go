package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = ".mygrep.yaml"

const (
	ColorNever  = "never"
	ColorAlways = "always"
	ColorAuto   = "auto"
)

type Config struct {
	Name       string        `yaml:"name"`
	Color      string        `yaml:"color"`
	LogLevel   string        `yaml:"log_level"`
	IgnoreCase bool          `yaml:"ignore_case"`
	MaxSteps   int           `yaml:"max_steps"`
	Timeout    time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		Name:     "mygrep",
		Color:    ColorNever,
		LogLevel: "warn",
		MaxSteps: 1_000_000,
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error when path is DefaultPath.
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		if path == DefaultPath && errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func (c Config) Validate() error {
	switch c.Color {
	case ColorNever, ColorAlways, ColorAuto:
	default:
		return fmt.Errorf("invalid color %q: want never, always or auto", c.Color)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("invalid max_steps %d", c.MaxSteps)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	return nil
}

// Write stores config as YAML at path, creating or truncating the file.
func Write(path string, config Config) error {
	if path == "" {
		path = DefaultPath
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
