// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package render collects stock markdown.Renderer implementations:
// HTMLRenderer, PangoRenderer, and PlainRenderer. None of them validate
// or sanitize markup — HTML sanitization is explicitly out of scope —
// they only serialize the callback sequence Parser drives.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/AleutianAI/mdstream/pkg/markdown"
)

// HTMLRenderer serializes the callback sequence as HTML into a
// strings.Builder. Text and entity payloads are escaped; raw HTML passed
// through OnHTML is NOT sanitized, matching spec.md's non-goal.
type HTMLRenderer struct {
	markdown.NopRenderer
	b strings.Builder
}

// String returns the accumulated HTML.
func (h *HTMLRenderer) String() string { return h.b.String() }

func (h *HTMLRenderer) OnText(str string)   { h.b.WriteString(html.EscapeString(str)) }
func (h *HTMLRenderer) OnEntity(str string) { h.b.WriteString(str) }

func (h *HTMLRenderer) OnEm(start bool)       { h.tag(start, "em") }
func (h *HTMLRenderer) OnStrong(start bool)   { h.tag(start, "strong") }
func (h *HTMLRenderer) OnCodeSpan(start bool) { h.tag(start, "code") }
func (h *HTMLRenderer) OnDel(start bool)      { h.tag(start, "del") }
func (h *HTMLRenderer) OnU(start bool)        { h.tag(start, "u") }

func (h *HTMLRenderer) OnH(start bool, level int) {
	tag := fmt.Sprintf("h%d", level)
	h.tag(start, tag)
}

func (h *HTMLRenderer) OnP(start bool) { h.tag(start, "p") }
func (h *HTMLRenderer) OnHR()          { h.b.WriteString("<hr>") }
func (h *HTMLRenderer) OnBR()          { h.b.WriteString("<br>") }
func (h *HTMLRenderer) OnSoftBR()      { h.b.WriteString("\n") }

func (h *HTMLRenderer) OnUL(start bool, indent int) { h.tag(start, "ul") }
func (h *HTMLRenderer) OnOL(start bool, indent int) { h.tag(start, "ol") }
func (h *HTMLRenderer) OnLI(start bool)             { h.tag(start, "li") }

func (h *HTMLRenderer) OnTaskList(start bool, checked bool) {
	if checked {
		h.b.WriteString(`<li><input type="checkbox" checked disabled> `)
	} else {
		h.b.WriteString(`<li><input type="checkbox" disabled> `)
	}
}

func (h *HTMLRenderer) OnCodeBlock(start bool, lang string) {
	if start {
		if lang != "" {
			fmt.Fprintf(&h.b, `<pre><code class="language-%s">`, html.EscapeString(lang))
		} else {
			h.b.WriteString("<pre><code>")
		}
	} else {
		h.b.WriteString("</code></pre>")
	}
}

func (h *HTMLRenderer) OnCodeText(str string) { h.b.WriteString(html.EscapeString(str)) }

func (h *HTMLRenderer) OnQuote(start bool, level int) { h.tag(start, "blockquote") }

func (h *HTMLRenderer) OnTable(start bool)    { h.tag(start, "table") }
func (h *HTMLRenderer) OnTableRow(start bool) { h.tag(start, "tr") }

func (h *HTMLRenderer) OnTableHCell(start bool, align markdown.Align) {
	h.cellTag(start, "th", align)
}

func (h *HTMLRenderer) OnTableCell(start bool, align markdown.Align) {
	h.cellTag(start, "td", align)
}

func (h *HTMLRenderer) OnA(start bool, href, title string, isReference bool) {
	if start {
		if title != "" {
			fmt.Fprintf(&h.b, `<a href="%s" title="%s">`, html.EscapeString(href), html.EscapeString(title))
		} else {
			fmt.Fprintf(&h.b, `<a href="%s">`, html.EscapeString(href))
		}
	} else {
		h.b.WriteString("</a>")
	}
}

func (h *HTMLRenderer) OnImg(src, title string) {
	if title != "" {
		fmt.Fprintf(&h.b, `<img src="%s" title="%s">`, html.EscapeString(src), html.EscapeString(title))
	} else {
		fmt.Fprintf(&h.b, `<img src="%s">`, html.EscapeString(src))
	}
}

func (h *HTMLRenderer) OnHTML(start bool, tag, attributes string) {
	if !start {
		fmt.Fprintf(&h.b, "</%s>", tag)
		return
	}
	if attributes != "" {
		fmt.Fprintf(&h.b, "<%s %s>", tag, attributes)
	} else {
		fmt.Fprintf(&h.b, "<%s>", tag)
	}
}

func (h *HTMLRenderer) OnOther(start bool, tag string) {}

func (h *HTMLRenderer) tag(start bool, name string) {
	if start {
		fmt.Fprintf(&h.b, "<%s>", name)
	} else {
		fmt.Fprintf(&h.b, "</%s>", name)
	}
}

func (h *HTMLRenderer) cellTag(start bool, name string, align markdown.Align) {
	if !start {
		fmt.Fprintf(&h.b, "</%s>", name)
		return
	}
	switch align {
	case markdown.AlignLeft:
		fmt.Fprintf(&h.b, `<%s style="text-align:left">`, name)
	case markdown.AlignRight:
		fmt.Fprintf(&h.b, `<%s style="text-align:right">`, name)
	case markdown.AlignCenter:
		fmt.Fprintf(&h.b, `<%s style="text-align:center">`, name)
	default:
		fmt.Fprintf(&h.b, "<%s>", name)
	}
}
