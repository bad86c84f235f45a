package generate

import (
	"fmt"
	"strings"

	"github.com/priyank/bookquiz/internal/question"
)

const mcqSystemPrompt = `You are an exam author creating assessment questions from a book chapter.

Rules:
- Every question must be answerable from the chapter text alone.
- Each question has exactly 4 options labeled A-D with exactly one correct answer.
- Distractors should reflect plausible misunderstandings of the chapter, not random statements.
- Cover distinct parts of the chapter; do not ask the same fact twice.
- Keep prompts self-contained: never refer to "the text above" or "this passage".`

const subjectiveSystemPrompt = `You are an exam author creating open-ended assessment questions from a book chapter.

Rules:
- Every question must be answerable from the chapter text alone.
- Scale the expected depth to the mark value: 1-2 marks want a brief definition
  or statement, 3 marks a structured explanation, 5 marks a comprehensive
  discussion with examples.
- key_points must list the distinct points a full-mark answer covers; one point
  per mark is a good baseline.
- The sample answer must itself earn full marks against the key points.
- Keep prompts self-contained: never refer to "the text above" or "this passage".`

// buildUserMessage constructs the generation request for one category batch.
func buildUserMessage(chapterText string, cat question.Category, count int, cfg Config) string {
	excerpt := chapterText
	if cfg.MaxChapterChars > 0 && len(excerpt) > cfg.MaxChapterChars {
		excerpt = excerpt[:cfg.MaxChapterChars]
	}

	var b strings.Builder
	if cat.Objective() {
		fmt.Fprintf(&b, "Generate %d multiple choice questions from the chapter below.\n\n", count)
	} else {
		marks := cat.MarkValue()
		fmt.Fprintf(&b, "Generate %d open-ended questions worth %d mark(s) each from the chapter below.\n", count, marks)
		fmt.Fprintf(&b, "Each needs key points, a sample answer, and an expected length note appropriate for %d mark(s).\n\n", marks)
	}
	b.WriteString("Chapter text:\n")
	b.WriteString(excerpt)
	return b.String()
}
