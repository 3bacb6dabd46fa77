// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

import "fmt"

// recordRenderer captures every callback invocation as a formatted string,
// in call order, so tests can assert on the exact sequence the parser
// produces for a given input — the same shape spec.md's worked scenarios
// describe ("on_p(true)", "on_text(...)", ...).
type recordRenderer struct {
	calls []string
}

func (r *recordRenderer) log(s string) { r.calls = append(r.calls, s) }

func (r *recordRenderer) OnText(str string)   { r.log(fmt.Sprintf("on_text(%q)", str)) }
func (r *recordRenderer) OnEntity(str string) { r.log(fmt.Sprintf("on_entity(%q)", str)) }

func (r *recordRenderer) OnEm(start bool)     { r.log(fmt.Sprintf("on_em(%v)", start)) }
func (r *recordRenderer) OnStrong(start bool) { r.log(fmt.Sprintf("on_strong(%v)", start)) }
func (r *recordRenderer) OnCodeSpan(start bool) {
	r.log(fmt.Sprintf("on_code_span(%v)", start))
}
func (r *recordRenderer) OnDel(start bool) { r.log(fmt.Sprintf("on_del(%v)", start)) }
func (r *recordRenderer) OnU(start bool)   { r.log(fmt.Sprintf("on_u(%v)", start)) }

func (r *recordRenderer) OnH(start bool, level int) {
	r.log(fmt.Sprintf("on_h(%v, %d)", start, level))
}
func (r *recordRenderer) OnP(start bool) { r.log(fmt.Sprintf("on_p(%v)", start)) }
func (r *recordRenderer) OnHR()          { r.log("on_hr()") }
func (r *recordRenderer) OnBR()          { r.log("on_br()") }
func (r *recordRenderer) OnSoftBR()      { r.log("on_softbr()") }

func (r *recordRenderer) OnUL(start bool, indent int) {
	r.log(fmt.Sprintf("on_ul(%v, %d)", start, indent))
}
func (r *recordRenderer) OnOL(start bool, indent int) {
	r.log(fmt.Sprintf("on_ol(%v, %d)", start, indent))
}
func (r *recordRenderer) OnLI(start bool) { r.log(fmt.Sprintf("on_li(%v)", start)) }
func (r *recordRenderer) OnTaskList(start bool, checked bool) {
	r.log(fmt.Sprintf("on_task_list(%v, %v)", start, checked))
}

func (r *recordRenderer) OnCodeBlock(start bool, lang string) {
	r.log(fmt.Sprintf("on_code_block(%v, %q)", start, lang))
}
func (r *recordRenderer) OnCodeText(str string) { r.log(fmt.Sprintf("on_code_text(%q)", str)) }
func (r *recordRenderer) OnCode(start bool, lang string, fenceChar byte) {
	r.log(fmt.Sprintf("on_code(%v, %q, %q)", start, lang, fenceChar))
}

func (r *recordRenderer) OnQuote(start bool, level int) {
	r.log(fmt.Sprintf("on_quote(%v, %d)", start, level))
}

func (r *recordRenderer) OnTable(start bool) { r.log(fmt.Sprintf("on_table(%v)", start)) }
func (r *recordRenderer) OnTableRow(start bool) {
	r.log(fmt.Sprintf("on_table_row(%v)", start))
}
func (r *recordRenderer) OnTableHCell(start bool, align Align) {
	r.log(fmt.Sprintf("on_table_hcell(%v, %v)", start, align))
}
func (r *recordRenderer) OnTableCell(start bool, align Align) {
	r.log(fmt.Sprintf("on_table_cell(%v, %v)", start, align))
}

func (r *recordRenderer) OnA(start bool, href, title string, isReference bool) {
	r.log(fmt.Sprintf("on_a(%v, %q, %q, %v)", start, href, title, isReference))
}
func (r *recordRenderer) OnImg(src, title string) {
	r.log(fmt.Sprintf("on_img(%q, %q)", src, title))
}

func (r *recordRenderer) OnHTML(start bool, tag, attributes string) {
	r.log(fmt.Sprintf("on_html(%v, %q, %q)", start, tag, attributes))
}
func (r *recordRenderer) OnOther(start bool, tag string) {
	r.log(fmt.Sprintf("on_other(%v, %q)", start, tag))
}

// runWhole feeds src as a single final Add, returning the recorded calls.
func runWhole(src string) []string {
	r := &recordRenderer{}
	p := NewParser(r)
	p.Add([]byte(src), true)
	p.Flush()
	return r.calls
}

// runChunked feeds src split at each offset in cuts (byte positions, strictly
// increasing, all < len(src)) as successive non-final Add calls, then
// flushes — exercising the parser's chunk-invariance guarantee.
func runChunked(src string, cuts ...int) []string {
	r := &recordRenderer{}
	p := NewParser(r)
	prev := 0
	for _, c := range cuts {
		p.Add([]byte(src[prev:c]), false)
		prev = c
	}
	p.Add([]byte(src[prev:]), false)
	p.Flush()
	return r.calls
}

// runByteAtATime feeds src one byte per Add call, the most adversarial
// chunking a caller could choose.
func runByteAtATime(src string) []string {
	r := &recordRenderer{}
	p := NewParser(r)
	for i := 0; i < len(src); i++ {
		p.Add([]byte{src[i]}, false)
	}
	p.Flush()
	return r.calls
}
