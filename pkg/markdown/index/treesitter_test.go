// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

//go:build tsmarkdown

package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/mdstream/pkg/markdown"
)

func TestTreeSitterHeadings_MatchesStreamingExtract(t *testing.T) {
	src := []byte("# Title\n\nsome text\n\n## Section\n\nmore text\n")

	tr := markdown.NewTreeRenderer()
	p := markdown.NewParser(tr)
	p.Add(src, false)
	p.Flush()

	symbols := Extract(tr.Doc, "doc.md")
	var streamed []string
	for _, s := range symbols {
		if s.Kind == SymbolKindHeading {
			streamed = append(streamed, s.Name)
		}
	}

	want, err := TreeSitterHeadings(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, want, streamed)
}
