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
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/mdstream/pkg/markdown"
	"github.com/AleutianAI/mdstream/pkg/markdown/render"
	"github.com/AleutianAI/mdstream/pkg/ux"
)

const renderChunkSize = 256

func runRender(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	if useTUI {
		return runTUI("render", func(msgs chan tea.Msg) {
			msgs <- doneMsg{err: drainToParser(in, markdown.NewParser(render.NewAnsiRenderer(chanWriter(msgs))))}
		})
	}

	r, err := newRenderer(outputFormat, os.Stdout)
	if err != nil {
		return err
	}
	if err := drainToParser(in, markdown.NewParser(r)); err != nil {
		return err
	}

	// AnsiRenderer with a live writer has already streamed its output to
	// os.Stdout as spans closed; every other renderer only accumulates,
	// and needs its result printed once at the end.
	_, isLiveAnsi := r.(*render.AnsiRenderer)
	if !isLiveAnsi {
		if s, ok := r.(stringer); ok {
			fmt.Fprint(os.Stdout, s.String())
		}
		return nil
	}

	// Piped formats (html/pango/plain) stay silent so their stdout stays
	// machine-consumable; only the interactive ANSI path gets a status line.
	ux.Success("render complete")
	return nil
}

// drainToParser reads in to EOF, feeding every chunk to p as a non-final
// Add, then flushes.
func drainToParser(in io.Reader, p *markdown.Parser) error {
	buf := make([]byte, renderChunkSize)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			p.Add(buf[:n], false)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
	p.Flush()
	return nil
}
