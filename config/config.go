// Package config holds the settings shared by the cli and the api server.
package config

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStackLimit  = 1024
	DefaultMemoryLimit = 1 << 20
	DefaultStepLimit   = 1 << 16
	DefaultListenAddr  = ":8080"
	DefaultLogLevel    = "info"
)

type Config struct {
	VM     VMConfig     `yaml:"vm"`
	Runner RunnerConfig `yaml:"runner"`
	Log    LogConfig    `yaml:"log"`
	API    APIConfig    `yaml:"api"`
}

type VMConfig struct {
	// StackLimit is the operand stack capacity in words.
	StackLimit int `yaml:"stackLimit,omitempty"`
	// MemoryLimit is the number of addressable memory cells.
	MemoryLimit uint64 `yaml:"memoryLimit,omitempty"`
}

type RunnerConfig struct {
	// StepLimit bounds executed instructions per run, -1 disables it.
	StepLimit int  `yaml:"stepLimit,omitempty"`
	Trace     bool `yaml:"trace,omitempty"`
}

type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

type APIConfig struct {
	ListenAddr string `yaml:"listenAddr,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and parses a yaml config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses yaml config content. The path is only used in errors.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if c.VM.StackLimit < 0 {
		return fmt.Errorf("%s: vm.stackLimit must not be negative, got %d", path, c.VM.StackLimit)
	}
	if c.Runner.StepLimit < -1 {
		return fmt.Errorf("%s: runner.stepLimit must be -1 or more, got %d", path, c.Runner.StepLimit)
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%s: log.level: %w", path, err)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.VM.StackLimit == 0 {
		c.VM.StackLimit = DefaultStackLimit
	}
	if c.VM.MemoryLimit == 0 {
		c.VM.MemoryLimit = DefaultMemoryLimit
	}
	if c.Runner.StepLimit == 0 {
		c.Runner.StepLimit = DefaultStepLimit
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.API.ListenAddr == "" {
		c.API.ListenAddr = DefaultListenAddr
	}
}

// ParsedLevel is the parsed level, info when unparsable.
func (c LogConfig) ParsedLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
