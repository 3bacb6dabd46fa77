// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package index extracts indexable Symbol values (headings, code blocks,
// links) from a markdown.Document, the same shape the teacher's
// tree-sitter-backed Markdown AST parser produces, so downstream
// chunking/embedding pipelines can consume either source interchangeably.
package index

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/mdstream/pkg/markdown"
)

// SymbolKind distinguishes the Markdown constructs this package extracts.
type SymbolKind int

const (
	SymbolKindHeading SymbolKind = iota
	SymbolKindCodeBlock
	SymbolKindLink
	SymbolKindImage
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolKindHeading:
		return "heading"
	case SymbolKindCodeBlock:
		return "code_block"
	case SymbolKindLink:
		return "link"
	case SymbolKindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Symbol is one indexable unit extracted from a Document. ID mirrors the
// teacher's "file_path:start_line:name" convention (services/code_buddy/ast),
// adapted to a streamed document that has no line numbers of its own — Seq
// (the symbol's position in document order) stands in for StartLine.
type Symbol struct {
	ID       string
	Kind     SymbolKind
	Name     string // heading text, or the code-block language, or the link text
	Href     string // link/image destination; empty for headings/code
	Title    string
	Level    int    // heading level, 1-6
	Language string // fenced-code info string
	FenceChar byte  // '`' or '~'; zero for non-code symbols
	Body     string // accumulated text content of the node
	Seq      int
}

// Extract walks a Document (as built by markdown.TreeRenderer) and returns
// its headings, code blocks, and links/images in document order.
func Extract(doc *markdown.Document, source string) []Symbol {
	var out []Symbol
	seq := 0
	var walk func(id markdown.NodeID)
	walk = func(id markdown.NodeID) {
		n, ok := doc.Node(id)
		if !ok {
			return
		}
		switch n.Kind {
		case markdown.NodeBlock:
			switch n.Block {
			case markdown.KindFencedCodeQuote, markdown.KindFencedCodeTild:
				seq++
				out = append(out, Symbol{
					ID:       fmt.Sprintf("%s:%d:code", source, seq),
					Kind:     SymbolKindCodeBlock,
					Name:     n.Lang,
					Language: n.Lang,
					FenceChar: n.FenceChar,
					Body:     collectText(doc, id),
					Seq:      seq,
				})
				return
			default:
				if lvl := n.Block.HeadingLevel(); lvl > 0 {
					seq++
					text := strings.TrimSpace(collectText(doc, id))
					out = append(out, Symbol{
						ID:    fmt.Sprintf("%s:%d:%s", source, seq, slug(text)),
						Kind:  SymbolKindHeading,
						Name:  text,
						Level: lvl,
						Body:  text,
						Seq:   seq,
					})
				}
			}
		case markdown.NodeFormat:
			switch n.Block {
			case markdown.KindLink:
				seq++
				out = append(out, Symbol{
					ID:    fmt.Sprintf("%s:%d:link", source, seq),
					Kind:  SymbolKindLink,
					Name:  collectText(doc, id),
					Href:  n.Href,
					Title: n.Title,
					Seq:   seq,
				})
				return
			}
		}
		for _, c := range doc.Children(id) {
			walk(c)
		}
	}
	walk(doc.Root())
	return out
}

func collectText(doc *markdown.Document, id markdown.NodeID) string {
	var b strings.Builder
	var walk func(markdown.NodeID)
	walk = func(id markdown.NodeID) {
		n, ok := doc.Node(id)
		if !ok {
			return
		}
		if n.Kind == markdown.NodeFormat && n.Block == markdown.KindText {
			b.WriteString(n.Text)
		}
		for _, c := range doc.Children(id) {
			walk(c)
		}
	}
	walk(id)
	return b.String()
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return b.String()
}
