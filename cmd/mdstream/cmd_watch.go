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
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/mdstream/pkg/logging"
	"github.com/AleutianAI/mdstream/pkg/markdown"
	"github.com/AleutianAI/mdstream/pkg/markdown/render"
	"github.com/AleutianAI/mdstream/pkg/ux"
)

// runWatch tails path, feeding every append to the parser as a non-final
// chunk and re-rendering. The file is flushed as final when it is removed,
// or immediately if --final was passed (treating the current contents as
// the whole document, with no further appends expected).
func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	final, _ := cmd.Flags().GetBool("final")

	debounce := cfg.WatchDebounce
	if cmd.Flags().Changed("debounce") {
		debounce, _ = cmd.Flags().GetDuration("debounce")
	}

	if useTUI {
		return runTUI("watch "+path, func(msgs chan tea.Msg) {
			p := markdown.NewParser(render.NewAnsiRenderer(chanWriter(msgs)))
			msgs <- doneMsg{err: watchLoop(path, final, debounce, p)}
		})
	}

	r, err := newRenderer(outputFormat, os.Stdout)
	if err != nil {
		return err
	}
	if !final {
		ux.Muted(fmt.Sprintf("watching %s for changes (ctrl-c to stop)…", path))
	}
	p := markdown.NewParser(r)
	if err := watchLoop(path, final, debounce, p); err != nil {
		return err
	}
	printIfBuffered(r)
	ux.Success(fmt.Sprintf("watch of %s finished", path))
	return nil
}

// watchLoop drives p from path's contents and, unless final is set, from
// subsequent fsnotify events on path, returning once the watched file is
// removed/renamed or --final was given. debounce, when positive, coalesces
// bursts of writes (e.g. an editor's save-then-rewrite) into a single
// re-render fired debounce after the last event instead of one per event.
func watchLoop(path string, final bool, debounce time.Duration, p *markdown.Parser) error {
	logger := logging.Default()
	logger.Info("watch session started", "path", path, "final", final, "debounce", debounce)

	offset, err := tailNewBytes(path, 0, p, logger)
	if err != nil {
		logger.Error("watch session failed", "path", path, "error", err)
		return err
	}
	if final {
		p.Flush()
		logger.Info("watch session finished", "path", path, "bytes_read", offset)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	var debounceTimer *time.Timer
	var debounceC <-chan time.Time
	if debounce > 0 {
		debounceTimer = time.NewTimer(debounce)
		if !debounceTimer.Stop() {
			<-debounceTimer.C
		}
		debounceC = debounceTimer.C
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				logger.Info("watch session finished", "path", path, "bytes_read", offset)
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				if debounceTimer != nil {
					debounceTimer.Reset(debounce)
					continue
				}
				offset, err = tailNewBytes(path, offset, p, logger)
				if err != nil {
					logger.Error("watch session failed", "path", path, "error", err)
					return err
				}
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				p.Flush()
				logger.Info("watch session finished", "path", path, "bytes_read", offset, "reason", "file removed")
				return nil
			}
		case <-debounceC:
			offset, err = tailNewBytes(path, offset, p, logger)
			if err != nil {
				logger.Error("watch session failed", "path", path, "error", err)
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				logger.Info("watch session finished", "path", path, "bytes_read", offset)
				return nil
			}
			logger.Error("watch session failed", "path", path, "error", err)
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// tailNewBytes reads and feeds every byte appended to path since offset,
// returning the new offset.
func tailNewBytes(path string, offset int64, p *markdown.Parser, logger *logging.Logger) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return offset, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seeking %s: %w", path, err)
	}

	buf := make([]byte, renderChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			p.Add(buf[:n], false)
			offset += int64(n)
			if pending := p.PendingBytes(); pending > 0 {
				logger.Debug("markdown parser retained leftover chunk bytes", "path", path, "bytes", pending)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return offset, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return offset, nil
}

func printIfBuffered(r markdown.Renderer) {
	if _, isLiveAnsi := r.(*render.AnsiRenderer); isLiveAnsi {
		return
	}
	if s, ok := r.(stringer); ok {
		fmt.Fprint(os.Stdout, s.String())
	}
}
