package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/priyank/bookquiz/internal/question"
)

// maxFallbackKeywords bounds the keyword pool extracted from chapter text.
const maxFallbackKeywords = 20

// Fallback fabricates syntactically valid placeholder questions when the
// generation collaborator is unavailable. Every question is marked as a
// fallback so the UI can disclose degraded content, and option labels are
// fixed so scoring stays deterministic.
type Fallback struct{}

// NewFallback creates the deterministic fallback generator.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Generate fabricates count placeholder questions for the category.
func (f *Fallback) Generate(_ context.Context, chapterText string, cat question.Category, count int) ([]question.Question, error) {
	if count <= 0 {
		return nil, nil
	}

	keywords := extractKeywords(chapterText, maxFallbackKeywords)

	qs := make([]question.Question, 0, count)
	for i := 0; i < count; i++ {
		if cat.Objective() {
			qs = append(qs, fallbackMCQ(i, keywords))
		} else {
			qs = append(qs, fallbackSubjective(cat, i, keywords))
		}
	}
	return qs, nil
}

func fallbackMCQ(i int, keywords []string) question.Question {
	topic := keywordAt(keywords, i)
	q := question.NewMultipleChoice(
		fmt.Sprintf("Sample question %d: which statement about %s best matches the chapter?", i+1, topic),
		map[string]string{
			"A": fmt.Sprintf("A statement about %s", keywordAt(keywords, i)),
			"B": fmt.Sprintf("A statement about %s", keywordAt(keywords, i+1)),
			"C": fmt.Sprintf("A statement about %s", keywordAt(keywords, i+2)),
			"D": fmt.Sprintf("A statement about %s", keywordAt(keywords, i+3)),
		},
		"A",
		"Placeholder question generated without the model; any option review is manual.",
	)
	q.Fallback = true
	return q
}

func fallbackSubjective(cat question.Category, i int, keywords []string) question.Question {
	marks := cat.MarkValue()
	topic := keywordAt(keywords, i)

	depth := "Brief"
	switch {
	case marks >= 5:
		depth = "Comprehensive"
	case marks >= 3:
		depth = "Detailed"
	}

	q := question.NewOpenEnded(cat,
		fmt.Sprintf("Sample %d-mark question %d: explain the concept of %s discussed in the chapter.", marks, i+1, topic),
		question.Rubric{
			KeyPoints: []string{
				fmt.Sprintf("Definition of %s", topic),
				fmt.Sprintf("Role of %s in the chapter", keywordAt(keywords, i+1)),
				fmt.Sprintf("Relation to %s", keywordAt(keywords, i+2)),
			},
			SampleAnswer:   fmt.Sprintf("A %s answer covering %s as presented in the chapter.", strings.ToLower(depth), topic),
			ExpectedLength: fmt.Sprintf("%s explanation", depth),
		},
	)
	q.Fallback = true
	return q
}

// extractKeywords pulls up to max distinct words longer than 4 characters
// from the chapter, in order of first appearance.
func extractKeywords(text string, max int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?\"'()[]")
		if len(w) <= 4 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) >= max {
			break
		}
	}
	return out
}

func keywordAt(keywords []string, i int) string {
	if len(keywords) == 0 {
		return "the main topic"
	}
	return keywords[i%len(keywords)]
}
