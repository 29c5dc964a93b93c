// Package ai wraps the generative model used for speech transcription,
// voice command interpretation and guest insight summaries.
//
// Every entry point degrades instead of failing: commands fall back to
// "unknown" and summaries to a fixed message.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"
)

var ErrDisabled = errors.New("ai assistant is not configured")

type Assistant struct {
	model llms.Model
}

// New wraps model. A nil model gives a disabled assistant.
func New(model llms.Model) *Assistant {
	return &Assistant{model: model}
}

// NewGoogle builds an assistant on Gemini, or a disabled one when apiKey is empty.
func NewGoogle(ctx context.Context, apiKey, model string) (*Assistant, error) {
	if apiKey == "" {
		return New(nil), nil
	}
	m, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(model))
	if err != nil {
		return nil, fmt.Errorf("googleai: %w", err)
	}
	return New(m), nil
}

func (a *Assistant) Enabled() bool { return a != nil && a.model != nil }

// Transcribe turns an audio clip into text.
func (a *Assistant) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if !a.Enabled() {
		return "", ErrDisabled
	}
	if len(audio) == 0 {
		return "", errors.New("empty audio")
	}
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	resp, err := a.model.GenerateContent(ctx, []llms.MessageContent{{
		Role: schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.BinaryPart(mimeType, audio),
			llms.TextPart("Transcribe this audio exactly. Reply with the transcription only."),
		},
	}}, llms.WithTemperature(0))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func (a *Assistant) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if !a.Enabled() {
		return "", ErrDisabled
	}
	out, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt, llms.WithTemperature(temperature))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
