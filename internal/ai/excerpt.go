// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ai generates post excerpts with the OpenAI API.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// maxContentChars bounds how much of the post body is sent.
	maxContentChars = 8000

	systemPrompt = "You summarize blog posts. Reply with a single plain-text excerpt " +
		"of at most two sentences. No markdown, no quotes around the text."
)

// ExcerptGenerator produces short excerpts from post content.
type ExcerptGenerator struct {
	client openai.Client
	model  string
}

// NewExcerptGenerator creates a generator using the given API key and model.
func NewExcerptGenerator(apiKey, model string) *ExcerptGenerator {
	return &ExcerptGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Generate returns an excerpt for the given post. The content is
// truncated before sending; the response is trimmed to plain text.
func (g *ExcerptGenerator) Generate(ctx context.Context, title, content string) (string, error) {
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf("Title: %s\n\n%s", title, content)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}

	excerpt := strings.TrimSpace(resp.Choices[0].Message.Content)
	if excerpt == "" {
		return "", fmt.Errorf("chat completion: empty excerpt")
	}
	return excerpt, nil
}
