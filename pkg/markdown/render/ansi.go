// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AleutianAI/mdstream/pkg/markdown"
)

var (
	ansiBold    = lipgloss.NewStyle().Bold(true)
	ansiItalic  = lipgloss.NewStyle().Italic(true)
	ansiCode    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Background(lipgloss.Color("236"))
	ansiStrike  = lipgloss.NewStyle().Strikethrough(true)
	ansiQuote   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	ansiHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	ansiLink    = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Underline(true)
	ansiHR      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// AnsiRenderer serializes the callback sequence as ANSI-styled text for an
// interactive terminal, grounded on the spinner/style conventions
// pkg/ux already uses for other interactive output. Because lipgloss
// styles a whole string at once rather than emitting a persistent
// SGR-start code, each inline span (OnEm/OnStrong/OnCodeSpan/OnDel/OnA)
// buffers its own text between start and end and renders it as one unit
// when it closes, instead of writing style codes directly into the
// output builder.
type AnsiRenderer struct {
	markdown.NopRenderer
	out       strings.Builder
	w         io.Writer // optional: mirrors completed writes for live streaming display
	spans     []*ansiSpan
	listStack []ansiListState
	quoteDep  int
	linkHref  string
}

type ansiSpan struct {
	style lipgloss.Style
	buf   strings.Builder
}

type ansiListState struct {
	ordered bool
	next    int
}

// NewAnsiRenderer creates an AnsiRenderer that also mirrors every completed
// write (plain text immediately, styled spans once closed) to w as it
// arrives — the live-terminal-display path. Pass nil for buffer-only use
// (String() at the end), the same renderer non-interactive callers want.
func NewAnsiRenderer(w io.Writer) *AnsiRenderer {
	return &AnsiRenderer{w: w}
}

// String returns the accumulated ANSI text.
func (a *AnsiRenderer) String() string { return a.out.String() }

// write sends text to the innermost open span, or to the root builder
// (and the live writer, if any) if no span is open.
func (a *AnsiRenderer) write(s string) {
	if n := len(a.spans); n > 0 {
		a.spans[n-1].buf.WriteString(s)
		return
	}
	a.out.WriteString(s)
	if a.w != nil {
		io.WriteString(a.w, s)
	}
}

func (a *AnsiRenderer) pushSpan(style lipgloss.Style) {
	a.spans = append(a.spans, &ansiSpan{style: style})
}

func (a *AnsiRenderer) popSpan() {
	if len(a.spans) == 0 {
		return
	}
	top := a.spans[len(a.spans)-1]
	a.spans = a.spans[:len(a.spans)-1]
	a.write(top.style.Render(top.buf.String()))
}

func (a *AnsiRenderer) OnText(str string) { a.write(str) }
func (a *AnsiRenderer) OnEntity(str string) { a.write(str) }

func (a *AnsiRenderer) OnEm(start bool) {
	if start {
		a.pushSpan(ansiItalic)
	} else {
		a.popSpan()
	}
}

func (a *AnsiRenderer) OnStrong(start bool) {
	if start {
		a.pushSpan(ansiBold)
	} else {
		a.popSpan()
	}
}

func (a *AnsiRenderer) OnDel(start bool) {
	if start {
		a.pushSpan(ansiStrike)
	} else {
		a.popSpan()
	}
}

func (a *AnsiRenderer) OnU(start bool) {}

func (a *AnsiRenderer) OnCodeSpan(start bool) {
	if start {
		a.pushSpan(ansiCode)
	} else {
		a.popSpan()
	}
}

func (a *AnsiRenderer) OnH(start bool, level int) {
	if start {
		a.pushSpan(ansiHeading)
		a.write(strings.Repeat("#", level) + " ")
	} else {
		a.popSpan()
		a.write("\n")
	}
}

func (a *AnsiRenderer) OnP(start bool) {
	if !start {
		a.write("\n")
	}
}

func (a *AnsiRenderer) OnHR()     { a.write(ansiHR.Render(strings.Repeat("─", 40)) + "\n") }
func (a *AnsiRenderer) OnBR()     { a.write("\n") }
func (a *AnsiRenderer) OnSoftBR() { a.write("\n") }

func (a *AnsiRenderer) OnUL(start bool, indent int) { a.pushOrPopList(start, false) }
func (a *AnsiRenderer) OnOL(start bool, indent int) { a.pushOrPopList(start, true) }

func (a *AnsiRenderer) pushOrPopList(start, ordered bool) {
	if start {
		a.listStack = append(a.listStack, ansiListState{ordered: ordered, next: 1})
	} else if len(a.listStack) > 0 {
		a.listStack = a.listStack[:len(a.listStack)-1]
	}
}

func (a *AnsiRenderer) OnLI(start bool) {
	if !start {
		a.write("\n")
		return
	}
	a.write(strings.Repeat("  ", len(a.listStack)-1))
	if len(a.listStack) == 0 {
		a.write("• ")
		return
	}
	top := &a.listStack[len(a.listStack)-1]
	if top.ordered {
		a.write(fmt.Sprintf("%d. ", top.next))
		top.next++
	} else {
		a.write("• ")
	}
}

func (a *AnsiRenderer) OnTaskList(start bool, checked bool) {
	a.write(strings.Repeat("  ", len(a.listStack)))
	if checked {
		a.write("[x] ")
	} else {
		a.write("[ ] ")
	}
}

func (a *AnsiRenderer) OnCodeBlock(start bool, lang string) {
	if start {
		a.pushSpan(ansiCode)
	} else {
		a.popSpan()
		a.write("\n")
	}
}

func (a *AnsiRenderer) OnCodeText(str string) { a.write(str) }

func (a *AnsiRenderer) OnQuote(start bool, level int) {
	if start {
		a.quoteDep++
		a.pushSpan(ansiQuote)
		a.write(strings.Repeat("▏ ", level))
	} else {
		a.popSpan()
		a.quoteDep--
		a.write("\n")
	}
}

func (a *AnsiRenderer) OnTableRow(start bool) {
	if !start {
		a.write("\n")
	}
}

func (a *AnsiRenderer) tableCell(start bool) {
	if start {
		a.write("│ ")
	}
}

func (a *AnsiRenderer) OnTableHCell(start bool, align markdown.Align) { a.tableCell(start) }
func (a *AnsiRenderer) OnTableCell(start bool, align markdown.Align)  { a.tableCell(start) }

func (a *AnsiRenderer) OnA(start bool, href, title string, isReference bool) {
	if start {
		a.linkHref = href
		a.pushSpan(ansiLink)
	} else {
		a.popSpan()
	}
}

func (a *AnsiRenderer) OnImg(src, title string) {
	a.write(ansiLink.Render(fmt.Sprintf("[image: %s]", title)))
}

func (a *AnsiRenderer) OnHTML(start bool, tag, attributes string) {}
func (a *AnsiRenderer) OnOther(start bool, tag string)            {}
