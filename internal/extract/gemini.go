package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const transcribePrompt = `Transcribe the attached book chapter to plain text.
Preserve the reading order, headings, and paragraph breaks. Omit page
numbers, headers, footers, and figure captions. Output only the chapter
text, no commentary.`

// Gemini transcribes PDF and DOCX documents by sending the raw bytes to a
// Gemini model inline with a transcription prompt.
type Gemini struct {
	client *genai.Client
	model  string
}

// maxInlineBytes caps documents sent inline with the request.
const maxInlineBytes = 20 << 20

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Supports(kind Kind) bool {
	return kind == KindPDF || kind == KindDOCX
}

func (g *Gemini) Extract(ctx context.Context, kind Kind, data []byte) (string, error) {
	if len(data) > maxInlineBytes {
		return "", fmt.Errorf("document too large: %d bytes, limit %d", len(data), maxInlineBytes)
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: transcribePrompt},
			{InlineData: &genai.Blob{MIMEType: kind.MIMEType(), Data: data}},
		},
	}}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return "", fmt.Errorf("transcription rate limited: %w", err)
		}
		return "", fmt.Errorf("transcribe document: %w", err)
	}
	return result.Text(), nil
}
