// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

// Renderer is the callback surface Parser drives as it consumes input
// (spec.md §4.7). Starts and ends are correctly nested per call sequence;
// a conforming Renderer may assume LIFO ordering. Text/entity calls arrive
// within an open block, with one exception: the on_text("\n") of a line
// that follows a closed block without opening a new one (for example the
// blank line after a heading) arrives with no block open.
//
// Implementations choose their own semantics for each callback: an HTML
// renderer emits tags, a plain-text renderer strips markup, a tree
// renderer builds a Document. None of that is the parser's concern.
type Renderer interface {
	OnText(str string)
	OnEntity(str string)

	OnEm(start bool)
	OnStrong(start bool)
	OnCodeSpan(start bool)
	OnDel(start bool)
	OnU(start bool)

	OnH(start bool, level int)
	OnP(start bool)
	OnHR()
	OnBR()
	OnSoftBR()

	OnUL(start bool, indent int)
	OnOL(start bool, indent int)
	OnLI(start bool)
	OnTaskList(start bool, checked bool)

	OnCodeBlock(start bool, lang string)
	OnCodeText(str string)
	OnCode(start bool, lang string, fenceChar byte)

	OnQuote(start bool, level int)

	OnTable(start bool)
	OnTableRow(start bool)
	OnTableHCell(start bool, align Align)
	OnTableCell(start bool, align Align)

	OnA(start bool, href, title string, isReference bool)
	OnImg(src, title string)

	OnHTML(start bool, tag, attributes string)
	OnOther(start bool, tag string)
}

// NopRenderer implements Renderer with no-op methods. Embed it in partial
// renderer implementations (tests, single-purpose consumers) that only
// care about a handful of callbacks.
type NopRenderer struct{}

func (NopRenderer) OnText(string)   {}
func (NopRenderer) OnEntity(string) {}

func (NopRenderer) OnEm(bool)       {}
func (NopRenderer) OnStrong(bool)   {}
func (NopRenderer) OnCodeSpan(bool) {}
func (NopRenderer) OnDel(bool)      {}
func (NopRenderer) OnU(bool)        {}

func (NopRenderer) OnH(bool, int) {}
func (NopRenderer) OnP(bool)      {}
func (NopRenderer) OnHR()         {}
func (NopRenderer) OnBR()         {}
func (NopRenderer) OnSoftBR()     {}

func (NopRenderer) OnUL(bool, int)       {}
func (NopRenderer) OnOL(bool, int)       {}
func (NopRenderer) OnLI(bool)            {}
func (NopRenderer) OnTaskList(bool, bool) {}

func (NopRenderer) OnCodeBlock(bool, string)      {}
func (NopRenderer) OnCodeText(string)             {}
func (NopRenderer) OnCode(bool, string, byte)      {}

func (NopRenderer) OnQuote(bool, int) {}

func (NopRenderer) OnTable(bool)             {}
func (NopRenderer) OnTableRow(bool)          {}
func (NopRenderer) OnTableHCell(bool, Align) {}
func (NopRenderer) OnTableCell(bool, Align)  {}

func (NopRenderer) OnA(bool, string, string, bool) {}
func (NopRenderer) OnImg(string, string)           {}

func (NopRenderer) OnHTML(bool, string, string) {}
func (NopRenderer) OnOther(bool, string)        {}
