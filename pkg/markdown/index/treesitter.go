// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

//go:build tsmarkdown

// This file is gated behind the tsmarkdown build tag: it exists to
// differentially test the streaming parser's extraction against a
// fully-buffered tree-sitter parse, not as a production code path (the
// whole point of the streaming parser is to avoid needing the full
// document up front). Grounded on
// services/code_buddy/ast/markdown_parser.go, which runs this same
// grammar for the teacher's code-indexing pipeline.
package index

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
)

// TreeSitterHeadings returns the heading texts tree-sitter's Markdown
// grammar extracts from content, for comparison against Extract's
// SymbolKindHeading entries over the same content run through
// markdown.Parser + markdown.TreeRenderer.
func TreeSitterHeadings(ctx context.Context, content []byte) ([]string, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tree_sitter_markdown.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "atx_heading" {
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				if child.Type() == "inline" {
					out = append(out, strings.TrimSpace(string(content[child.StartByte():child.EndByte()])))
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return out, nil
}
