// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package llmclient defines the narrow interface pkg/ux's chat stream
// adapter depends on to pull token deltas out of a chat completion
// stream. It has no live implementation — the HTTP round-trip to a
// model endpoint is out of scope here (see services/llm/openai_llm.go
// for the teacher's full client, which this interface is distilled
// from); callers wire a real *openai.Client themselves and hand this
// package only the already-open stream.
package llmclient

import (
	"context"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// ChatStreamer receives chat completion stream chunks one at a time, the
// shape github.com/sashabaranov/go-openai's CreateChatCompletionStream
// returns from Recv(). Implementations wrap an *openai.ChatCompletionStream;
// Recv returns io.EOF when the stream ends, matching that type's own
// contract so callers can drive both interchangeably.
type ChatStreamer interface {
	Recv() (openai.ChatCompletionStreamResponse, error)
	Close() error
}

// Delta extracts the first choice's content delta from a stream chunk, or
// "" if the chunk carries no content (e.g. a role-only opening chunk).
func Delta(resp openai.ChatCompletionStreamResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Delta.Content
}

// Drain reads every chunk from a ChatStreamer and invokes onDelta with each
// non-empty content delta, returning when the stream ends (io.EOF) or ctx
// is canceled. It is the template a caller follows to feed a
// markdown.Parser: see pkg/ux's sseStreamProcessor.handleToken for the
// concrete wiring (onDelta there is parser.Add).
func Drain(ctx context.Context, stream ChatStreamer, onDelta func(string)) error {
	defer stream.Close()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if d := Delta(resp); d != "" {
			onDelta(d)
		}
	}
}
