// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/mdstream/pkg/logging"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "ansi", cfg.OutputFormat)
	assert.Equal(t, time.Duration(0), cfg.WatchDebounce)
	assert.Equal(t, "", cfg.ChatModel)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNew_AppliesOptionsOverDefault(t *testing.T) {
	cfg := New(
		WithOutputFormat("html"),
		WithWatchDebounce(200*time.Millisecond),
		WithChatModel("gpt-4o"),
		WithLogLevel("debug"),
	)
	assert.Equal(t, "html", cfg.OutputFormat)
	assert.Equal(t, 200*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestNew_NoOptionsMatchesDefault(t *testing.T) {
	assert.Equal(t, Default(), New())
}

func TestLoad_MissingFileCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "output_format: ansi")
}

func TestLoad_ExistingFileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_format: plain
watch_debounce: 500000000
chat_model: gpt-4o-mini
log_level: warn
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.OutputFormat)
	assert.Equal(t, 500*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MalformedYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_format: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultPath_UnderHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".mdstream", "config.yaml"), path)
}

func TestConfig_LoggingLevel(t *testing.T) {
	tests := []struct {
		logLevel string
		want     logging.Level
	}{
		{"debug", logging.LevelDebug},
		{"info", logging.LevelInfo},
		{"warn", logging.LevelWarn},
		{"error", logging.LevelError},
		{"", logging.LevelInfo},
		{"nonsense", logging.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, cfg.LoggingLevel())
		})
	}
}
