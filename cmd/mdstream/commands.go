// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"

	"github.com/AleutianAI/mdstream/pkg/config"
	"github.com/AleutianAI/mdstream/pkg/logging"
)

var (
	outputFormat string
	useTUI       bool
	configPath   string

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "mdstream",
		Short: "A streaming Markdown renderer",
		Long: `mdstream parses Markdown incrementally, chunk by chunk, and renders
it to HTML, Pango markup, plain text, or an ANSI-styled terminal as the
input arrives — the same engine a chat client would drive token by token.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			loaded, err := config.Load(path)
			if err != nil {
				return err
			}
			cfg = loaded
			logging.SetDefaultLevel(cfg.LoggingLevel())

			// Flags take precedence over the config file; only fall back
			// to cfg's value when the flag was left at its zero default.
			if !cmd.Flags().Changed("format") {
				outputFormat = cfg.OutputFormat
			}
			return nil
		},
	}

	renderCmd = &cobra.Command{
		Use:   "render [file]",
		Short: "Render a Markdown file or stdin to the chosen format",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}

	watchCmd = &cobra.Command{
		Use:   "watch <file>",
		Short: "Render a growing file as it is appended to, CommonMark-style",
		Long: `watch tails a file the way a log tailer would: it feeds every
append to the parser as a non-final chunk, re-rendering the affected
tail, and only flushes the trailing block once the file is removed or
--final is passed on the initial read.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "ansi",
		"Output format: ansi, html, pango, or plain")
	rootCmd.PersistentFlags().BoolVar(&useTUI, "tui", false,
		"Show a scrollable interactive display (spinner + viewport) instead of printing straight to stdout")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file (default ~/.mdstream/config.yaml, created on first run)")

	watchCmd.Flags().Bool("final", false, "Treat the file's current contents as complete on first read")
	watchCmd.Flags().Duration("debounce", 0,
		"Coalesce writes within this interval into a single re-render (overrides the config file's watch_debounce)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(watchCmd)
}
