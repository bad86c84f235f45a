package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/priyank/bookquiz/internal/llm"
)

// GradeInput is everything the grading collaborator needs to evaluate one
// open-ended answer.
type GradeInput struct {
	Question       string
	KeyPoints      []string
	SampleAnswer   string
	ExpectedLength string
	MaxMarks       int
	Answer         string
}

// GradeResult is a grade for one answer. Score is clamped to [0, MaxMarks]
// by the engine regardless of what the grader returned.
type GradeResult struct {
	Score        int
	Feedback     string
	Strengths    []string
	Improvements []string
	Suggestions  []string
	SubScores    SubScores
}

// Grader evaluates open-ended answers against a rubric.
type Grader interface {
	Grade(ctx context.Context, in GradeInput) (*GradeResult, error)
}

const graderSystemPrompt = `You are a strict but fair exam grader for book-chapter comprehension tests.

Grade the student's answer against the rubric:
- Award marks for key points the answer actually covers. Partial credit is expected.
- Score each dimension (accuracy, completeness, clarity, relevance) from 0 to 10.
- Feedback is 1-3 sentences, addressed to the student.
- List concrete strengths and concrete improvements; keep each item short.
- Do not award marks for restating the question or for confident-sounding filler.`

// gradeSchema constrains the grader reply; score is bounded per call by the
// question's mark value.
func gradeSchema(maxMarks int) *llm.Schema {
	dimension := map[string]any{"type": "integer", "minimum": 0, "maximum": 10}
	return &llm.Schema{
		Name:        "answer_grade",
		Description: "Rubric-based grade for one open-ended answer",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score": map[string]any{
					"type":    "integer",
					"minimum": 0,
					"maximum": maxMarks,
				},
				"feedback": map[string]any{"type": "string"},
				"strengths": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"improvements": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"suggestions": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"sub_scores": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"accuracy":     dimension,
						"completeness": dimension,
						"clarity":      dimension,
						"relevance":    dimension,
					},
					"required":             []string{"accuracy", "completeness", "clarity", "relevance"},
					"additionalProperties": false,
				},
			},
			"required":             []string{"score", "feedback", "strengths", "improvements", "sub_scores"},
			"additionalProperties": false,
		},
	}
}

// LLMGrader implements Grader on an LLM provider.
type LLMGrader struct {
	provider       llm.Provider
	maxTokens      int
	requestTimeout time.Duration
}

// NewLLMGrader creates a grader with sensible request defaults.
func NewLLMGrader(provider llm.Provider) *LLMGrader {
	return &LLMGrader{
		provider:       provider,
		maxTokens:      1024,
		requestTimeout: 45 * time.Second,
	}
}

// gradeOutput mirrors the grader reply.
type gradeOutput struct {
	Score        int       `json:"score"`
	Feedback     string    `json:"feedback"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`
	Suggestions  []string  `json:"suggestions"`
	SubScores    SubScores `json:"sub_scores"`
}

func (g *LLMGrader) Grade(ctx context.Context, in GradeInput) (*GradeResult, error) {
	ctx = llm.WithPurpose(ctx, "answer-grading")
	if g.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.requestTimeout)
		defer cancel()
	}

	req := llm.Request{
		System: graderSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGradeMessage(in)},
		},
		Schema:    gradeSchema(in.MaxMarks),
		MaxTokens: g.maxTokens,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM grading failed: %w", err)
	}

	var out gradeOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse grade: %w", err)
	}
	return &GradeResult{
		Score:        out.Score,
		Feedback:     out.Feedback,
		Strengths:    out.Strengths,
		Improvements: out.Improvements,
		Suggestions:  out.Suggestions,
		SubScores:    out.SubScores,
	}, nil
}

func buildGradeMessage(in GradeInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question (%d marks): %s\n\n", in.MaxMarks, in.Question)
	if len(in.KeyPoints) > 0 {
		b.WriteString("Key points the answer should cover:\n")
		for _, p := range in.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
	if in.SampleAnswer != "" {
		fmt.Fprintf(&b, "Sample answer: %s\n\n", in.SampleAnswer)
	}
	if in.ExpectedLength != "" {
		fmt.Fprintf(&b, "Expected length: %s\n\n", in.ExpectedLength)
	}
	fmt.Fprintf(&b, "Student's answer:\n%s", in.Answer)
	return b.String()
}
