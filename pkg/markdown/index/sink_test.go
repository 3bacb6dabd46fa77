// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
)

func TestSymbolSchema_ReturnsValidClass(t *testing.T) {
	schema := SymbolSchema()

	require.NotNil(t, schema)
	assert.Equal(t, SymbolClassName, schema.Class)
	assert.Equal(t, "none", schema.Vectorizer)
}

func TestSymbolSchema_HasRequiredProperties(t *testing.T) {
	schema := SymbolSchema()

	expected := []string{"kind", "name", "href", "level", "language", "body", "source"}
	names := make(map[string]bool, len(schema.Properties))
	for _, p := range schema.Properties {
		names[p.Name] = true
	}
	for _, name := range expected {
		assert.Truef(t, names[name], "missing property %q", name)
	}
	assert.Len(t, schema.Properties, len(expected))
}

func TestNewWeaviateSink_RejectsNilClient(t *testing.T) {
	_, err := NewWeaviateSink(nil, "doc.md")
	assert.Error(t, err)
}

func TestNewWeaviateSink_RejectsEmptySource(t *testing.T) {
	_, err := NewWeaviateSink(&weaviate.Client{}, "")
	assert.Error(t, err)
}

func TestPutAll_StopsAtFirstError(t *testing.T) {
	calls := 0
	sink := &fakeSink{onPut: func(Symbol) error {
		calls++
		if calls == 2 {
			return assert.AnError
		}
		return nil
	}}

	symbols := []Symbol{
		{Kind: SymbolKindHeading, Name: "one"},
		{Kind: SymbolKindHeading, Name: "two"},
		{Kind: SymbolKindHeading, Name: "three"},
	}

	err := PutAll(context.Background(), sink, symbols)
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

type fakeSink struct {
	onPut func(Symbol) error
}

func (f *fakeSink) Put(_ context.Context, sym Symbol) error {
	return f.onPut(sym)
}
