package generate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/priyank/bookquiz/internal/llm"
	"github.com/priyank/bookquiz/internal/question"
)

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates an LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// mcqOutput mirrors one MCQ item in the LLM reply.
type mcqOutput struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

// subjectiveOutput mirrors one open-ended item in the LLM reply.
type subjectiveOutput struct {
	Question       string   `json:"question"`
	KeyPoints      []string `json:"key_points"`
	SampleAnswer   string   `json:"sample_answer"`
	ExpectedLength string   `json:"expected_length"`
}

// Generate produces one category batch of questions.
func (g *LLMGenerator) Generate(ctx context.Context, chapterText string, cat question.Category, count int) ([]question.Question, error) {
	if count <= 0 {
		return nil, nil
	}

	ctx = llm.WithPurpose(ctx, "question-gen")
	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	schema := SubjectiveBatchSchema
	system := subjectiveSystemPrompt
	if cat.Objective() {
		schema = MCQBatchSchema
		system = mcqSystemPrompt
	}

	req := llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(chapterText, cat, count, g.config)},
		},
		Schema:      schema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	if cat.Objective() {
		return parseMCQBatch(resp.Content, count)
	}
	return parseSubjectiveBatch(resp.Content, cat, count)
}

func parseMCQBatch(content json.RawMessage, count int) ([]question.Question, error) {
	var batch struct {
		Questions []mcqOutput `json:"questions"`
	}
	if err := json.Unmarshal(content, &batch); err != nil {
		return nil, fmt.Errorf("parse MCQ batch: %w", err)
	}

	qs := make([]question.Question, 0, len(batch.Questions))
	for i, raw := range batch.Questions {
		q := question.NewMultipleChoice(raw.Question, raw.Options, raw.CorrectAnswer, raw.Explanation)
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("MCQ item %d: %w", i+1, err)
		}
		qs = append(qs, q)
	}
	return capBatch(qs, count), nil
}

func parseSubjectiveBatch(content json.RawMessage, cat question.Category, count int) ([]question.Question, error) {
	var batch struct {
		Questions []subjectiveOutput `json:"questions"`
	}
	if err := json.Unmarshal(content, &batch); err != nil {
		return nil, fmt.Errorf("parse %s batch: %w", cat, err)
	}

	qs := make([]question.Question, 0, len(batch.Questions))
	for i, raw := range batch.Questions {
		q := question.NewOpenEnded(cat, raw.Question, question.Rubric{
			KeyPoints:      raw.KeyPoints,
			SampleAnswer:   raw.SampleAnswer,
			ExpectedLength: raw.ExpectedLength,
		})
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%s item %d: %w", cat, i+1, err)
		}
		qs = append(qs, q)
	}
	return capBatch(qs, count), nil
}

// capBatch trims an over-generated batch to the requested count. Models
// occasionally return an extra item; under-generation is left as-is.
func capBatch(qs []question.Question, count int) []question.Question {
	if len(qs) > count {
		return qs[:count]
	}
	return qs
}
