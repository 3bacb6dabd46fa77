// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/AleutianAI/mdstream/pkg/markdown"
)

// PangoRenderer serializes the callback sequence as Pango markup, the
// subset GTK text widgets accept via gtk_label_set_markup — grounded on
// the terminal/desktop display path a streaming chat UI needs alongside
// plain HTML (pkg/ux/renderer.go's TerminalStreamRenderer formats runs
// of styled text the same way, just against ANSI instead of Pango spans).
// Pango has no list or table markup, so block structure collapses to
// newlines and a literal bullet/number prefix.
type PangoRenderer struct {
	markdown.NopRenderer
	b          strings.Builder
	listStack  []pangoListState
	tableAlign []markdown.Align
	tableCol   int
}

type pangoListState struct {
	ordered bool
	next    int
}

// String returns the accumulated Pango markup.
func (p *PangoRenderer) String() string { return p.b.String() }

func (p *PangoRenderer) OnText(str string)   { p.b.WriteString(html.EscapeString(str)) }
func (p *PangoRenderer) OnEntity(str string) { p.b.WriteString(str) }

func (p *PangoRenderer) OnEm(start bool)     { p.span(start, "i") }
func (p *PangoRenderer) OnStrong(start bool) { p.span(start, "b") }
func (p *PangoRenderer) OnCodeSpan(start bool) {
	p.span(start, `span font_family="monospace"`)
}
func (p *PangoRenderer) OnDel(start bool) { p.span(start, "s") }
func (p *PangoRenderer) OnU(start bool)   { p.span(start, "u") }

func (p *PangoRenderer) OnH(start bool, level int) {
	if start {
		size := 140 - (level-1)*10
		fmt.Fprintf(&p.b, `<span weight="bold" size="%d%%">`, size)
	} else {
		p.b.WriteString("</span>\n")
	}
}

func (p *PangoRenderer) OnP(start bool) {
	if !start {
		p.b.WriteString("\n")
	}
}

func (p *PangoRenderer) OnHR()     { p.b.WriteString("\n―――――\n") }
func (p *PangoRenderer) OnBR()     { p.b.WriteString("\n") }
func (p *PangoRenderer) OnSoftBR() { p.b.WriteString("\n") }

func (p *PangoRenderer) OnUL(start bool, indent int) { p.pushOrPopList(start, false) }
func (p *PangoRenderer) OnOL(start bool, indent int) { p.pushOrPopList(start, true) }

func (p *PangoRenderer) pushOrPopList(start, ordered bool) {
	if start {
		p.listStack = append(p.listStack, pangoListState{ordered: ordered, next: 1})
	} else if len(p.listStack) > 0 {
		p.listStack = p.listStack[:len(p.listStack)-1]
	}
}

func (p *PangoRenderer) OnLI(start bool) {
	if !start {
		p.b.WriteString("\n")
		return
	}
	p.b.WriteString(strings.Repeat("  ", len(p.listStack)-1))
	if len(p.listStack) == 0 {
		p.b.WriteString("• ")
		return
	}
	top := &p.listStack[len(p.listStack)-1]
	if top.ordered {
		fmt.Fprintf(&p.b, "%d. ", top.next)
		top.next++
	} else {
		p.b.WriteString("• ")
	}
}

func (p *PangoRenderer) OnTaskList(start bool, checked bool) {
	p.b.WriteString(strings.Repeat("  ", len(p.listStack)))
	if checked {
		p.b.WriteString("☑ ")
	} else {
		p.b.WriteString("☐ ")
	}
}

func (p *PangoRenderer) OnCodeBlock(start bool, lang string) {
	if start {
		p.b.WriteString(`<span font_family="monospace">`)
	} else {
		p.b.WriteString("</span>\n")
	}
}

func (p *PangoRenderer) OnCodeText(str string) { p.b.WriteString(html.EscapeString(str)) }

func (p *PangoRenderer) OnQuote(start bool, level int) {
	if start {
		p.b.WriteString(`<span style="italic" foreground="#888888">`)
	} else {
		p.b.WriteString("</span>\n")
	}
}

func (p *PangoRenderer) OnTable(start bool) {
	if !start {
		p.b.WriteString("\n")
	}
}

func (p *PangoRenderer) OnTableRow(start bool) {
	if start {
		p.tableCol = 0
	} else {
		p.b.WriteString("\n")
	}
}

func (p *PangoRenderer) tableCell(start bool) {
	if start {
		if p.tableCol > 0 {
			p.b.WriteString(" │ ")
		}
		p.tableCol++
	}
}

func (p *PangoRenderer) OnTableHCell(start bool, align markdown.Align) { p.tableCell(start) }
func (p *PangoRenderer) OnTableCell(start bool, align markdown.Align)  { p.tableCell(start) }

func (p *PangoRenderer) OnA(start bool, href, title string, isReference bool) {
	if start {
		fmt.Fprintf(&p.b, `<a href="%s">`, html.EscapeString(href))
	} else {
		p.b.WriteString("</a>")
	}
}

func (p *PangoRenderer) OnImg(src, title string) {
	fmt.Fprintf(&p.b, "[image: %s]", html.EscapeString(title))
}

func (p *PangoRenderer) OnHTML(start bool, tag, attributes string) {}
func (p *PangoRenderer) OnOther(start bool, tag string)            {}

func (p *PangoRenderer) span(start bool, tag string) {
	if start {
		fmt.Fprintf(&p.b, "<%s>", tag)
	} else {
		name := tag
		if i := strings.IndexByte(tag, ' '); i != -1 {
			name = tag[:i]
		}
		fmt.Fprintf(&p.b, "</%s>", name)
	}
}
