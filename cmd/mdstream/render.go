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

	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/mdstream/pkg/markdown"
	"github.com/AleutianAI/mdstream/pkg/markdown/render"
)

// newRenderer builds the markdown.Renderer for the requested --format,
// falling back to plain text when ansi is requested but w isn't a real
// terminal (piped output, redirected to a file).
func newRenderer(format string, w io.Writer) (markdown.Renderer, error) {
	switch format {
	case "html":
		return &render.HTMLRenderer{}, nil
	case "pango":
		return &render.PangoRenderer{}, nil
	case "plain":
		return &render.PlainRenderer{}, nil
	case "ansi":
		if f, ok := w.(interface{ Fd() uintptr }); ok && isatty.IsTerminal(f.Fd()) {
			return render.NewAnsiRenderer(w), nil
		}
		return &render.PlainRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: want ansi, html, pango, or plain", format)
	}
}

// stringer is the subset of the renderer implementations that accumulate
// and return their output; every renderer in pkg/markdown/render supports it.
type stringer interface {
	String() string
}
