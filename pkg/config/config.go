// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config holds mdstream's on-disk/CLI configuration surface: the
// renderer format, watch debounce, chat model name, and log level that
// cmd/mdstream's flags and pkg/ux's stream adapter are configured from.
//
// The shape follows the teacher's MarkdownParserOptions/MarkdownParserOption
// pair in services/code_buddy/ast/markdown_parser.go — a plain struct of
// defaults plus functional options layered on top — rather than the
// teacher's much larger cmd/aleutian/config.AleutianConfig (machine
// provisioning, secrets backends, model-management, profiles), none of
// which this repository has a use for.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/mdstream/pkg/logging"
)

// Config configures the renderers and the CLI.
type Config struct {
	// OutputFormat selects the renderer: ansi, html, pango, or plain.
	OutputFormat string `yaml:"output_format"`

	// WatchDebounce is the minimum interval between re-renders while
	// tailing a file with `mdstream watch`. A zero value re-renders on
	// every fsnotify event. Stored in the YAML file as a plain integer of
	// nanoseconds (time.Duration's underlying type, same convention as
	// the teacher's SecretsConfig.Timeout) rather than a duration string;
	// the CLI's --debounce flag accepts the usual "500ms" syntax instead.
	WatchDebounce time.Duration `yaml:"watch_debounce"`

	// ChatModel names the model the chat stream adapter's StreamEvent
	// payloads are assumed to come from; purely descriptive today (no
	// live ChatStreamer implementation exists per SPEC_FULL.md §1's
	// non-goal on the model endpoint), but recorded so a future live
	// client has somewhere to read it from.
	ChatModel string `yaml:"chat_model"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
}

// Default returns mdstream's baked-in defaults, mirroring the teacher's
// DefaultMarkdownParserOptions.
func Default() Config {
	return Config{
		OutputFormat:  "ansi",
		WatchDebounce: 0,
		ChatModel:     "",
		LogLevel:      "info",
	}
}

// Option is a functional option for New, following the teacher's
// MarkdownParserOption convention.
type Option func(*Config)

// WithOutputFormat overrides the renderer format.
func WithOutputFormat(format string) Option {
	return func(c *Config) { c.OutputFormat = format }
}

// WithWatchDebounce overrides the watch re-render debounce interval.
func WithWatchDebounce(d time.Duration) Option {
	return func(c *Config) { c.WatchDebounce = d }
}

// WithChatModel overrides the recorded chat model name.
func WithChatModel(model string) Option {
	return func(c *Config) { c.ChatModel = model }
}

// WithLogLevel overrides the log level.
func WithLogLevel(level string) Option {
	return func(c *Config) { c.LogLevel = level }
}

// New builds a Config from Default, applying opts in order.
func New(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Load reads path as YAML over top of Default, creating path with the
// default config serialized to it if it does not already exist — the same
// first-run behavior as the teacher's cmd/aleutian/config.loadInternal,
// narrowed to mdstream's much smaller config surface and with no package
// singleton (every caller gets its own Config value).
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefault(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns ~/.mdstream/config.yaml, the path Load uses when the
// CLI's --config flag is left at its default.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".mdstream", "config.yaml"), nil
}

func writeDefault(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory for %s: %w", path, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing default config %s: %w", path, err)
	}
	return nil
}

// LoggingLevel maps LogLevel to the level pkg/logging.Config expects,
// defaulting to Info on an empty or unrecognized string.
func (c Config) LoggingLevel() logging.Level {
	switch c.LogLevel {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
