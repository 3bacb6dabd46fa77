// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
)

// SymbolClassName is the Weaviate class extracted symbols are stored under.
const SymbolClassName = "MarkdownSymbol"

// SymbolSchema returns the Weaviate class definition for SymbolClassName,
// grounded on the teacher's document/memory schemas
// (services/orchestrator/datatypes/weaviate_schemas.go,
// services/code_buddy/memory/store.go).
func SymbolSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:      SymbolClassName,
		Vectorizer: "none",
		Properties: []*models.Property{
			{Name: "kind", DataType: []string{"text"}, IndexFilterable: indexFilterable, Tokenization: "field"},
			{Name: "name", DataType: []string{"text"}, Tokenization: "word"},
			{Name: "href", DataType: []string{"text"}, IndexFilterable: indexFilterable, Tokenization: "field"},
			{Name: "level", DataType: []string{"int"}, IndexFilterable: indexFilterable},
			{Name: "language", DataType: []string{"text"}, IndexFilterable: indexFilterable, Tokenization: "field"},
			{Name: "body", DataType: []string{"text"}, Tokenization: "word"},
			{Name: "source", DataType: []string{"text"}, IndexFilterable: indexFilterable, Tokenization: "field"},
		},
	}
}

// Sink accepts extracted symbols for storage. Implementations must be safe
// for the caller to invoke once per Symbol in sequence; batching is an
// implementation detail.
type Sink interface {
	Put(ctx context.Context, sym Symbol) error
}

// WeaviateSink pushes Symbol values into a Weaviate class as individual
// objects via the Creator API (store.go's Store method is the template).
type WeaviateSink struct {
	client *weaviate.Client
	source string
}

// NewWeaviateSink creates a sink scoped to one document source path.
func NewWeaviateSink(client *weaviate.Client, source string) (*WeaviateSink, error) {
	if client == nil {
		return nil, errors.New("client must not be nil")
	}
	if source == "" {
		return nil, errors.New("source must not be empty")
	}
	return &WeaviateSink{client: client, source: source}, nil
}

// Put stores sym as a SymbolClassName object.
func (s *WeaviateSink) Put(ctx context.Context, sym Symbol) error {
	_, err := s.client.Data().Creator().
		WithClassName(SymbolClassName).
		WithProperties(map[string]interface{}{
			"kind":     sym.Kind.String(),
			"name":     sym.Name,
			"href":     sym.Href,
			"level":    sym.Level,
			"language": sym.Language,
			"body":     sym.Body,
			"source":   s.source,
		}).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("storing symbol in weaviate: %w", err)
	}
	return nil
}

// PutAll stores every symbol in doc order, stopping at the first error.
func PutAll(ctx context.Context, sink Sink, symbols []Symbol) error {
	for _, sym := range symbols {
		if err := sink.Put(ctx, sym); err != nil {
			return err
		}
	}
	return nil
}
