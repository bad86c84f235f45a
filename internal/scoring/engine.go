package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/priyank/bookquiz/internal/exam"
	"github.com/priyank/bookquiz/internal/question"
)

// FallbackFeedback is attached to results graded by the half-credit
// fallback after automatic evaluation failed.
const FallbackFeedback = "Automatic evaluation failed. Manual review recommended."

// Engine scores completed test sessions. Scoring never mutates the session;
// scoring the same session twice yields the same per-question results.
type Engine struct {
	grader Grader
	now    func() time.Time
}

func NewEngine(grader Grader) *Engine {
	return &Engine{grader: grader, now: time.Now}
}

// Score evaluates every question of a completed session and aggregates the
// summary. A grading failure on one question never fails the whole report;
// that question gets the half-credit fallback instead.
func (e *Engine) Score(ctx context.Context, s *exam.Session) (*Report, error) {
	switch s.State() {
	case exam.StateCompleted:
	default:
		return nil, &exam.InvalidStateError{Op: "score", State: s.State()}
	}

	questions := s.Questions()
	results := make([]ScoredResult, 0, len(questions))
	for i, q := range questions {
		results = append(results, e.scoreQuestion(ctx, s, i, q))
	}

	return &Report{
		Summary: e.summarize(s, results),
		Results: results,
	}, nil
}

func (e *Engine) scoreQuestion(ctx context.Context, s *exam.Session, index int, q exam.SelectedQuestion) ScoredResult {
	res := ScoredResult{
		QuestionID: q.ID,
		Category:   q.Category,
		Prompt:     q.Prompt,
		MaxScore:   q.Marks,
	}

	if s.IsSkipped(index) {
		res.EvaluationType = EvalSkipped
		res.Feedback = "Question was skipped."
		return res
	}
	ans, ok := s.AnswerFor(index)
	if !ok || strings.TrimSpace(ans.Text) == "" {
		res.EvaluationType = EvalNoAnswer
		res.Feedback = "No answer provided."
		return res
	}
	res.Answer = ans.Text

	if q.Category.Objective() {
		return scoreMCQ(res, q, ans.Text)
	}
	return e.scoreSubjective(ctx, res, q, ans.Text)
}

func scoreMCQ(res ScoredResult, q exam.SelectedQuestion, answer string) ScoredResult {
	res.EvaluationType = EvalMCQ
	given := strings.ToUpper(strings.TrimSpace(answer))
	correct := strings.ToUpper(strings.TrimSpace(q.CorrectLabel))
	if given == correct {
		res.Correct = true
		res.Score = q.Marks
		res.Feedback = strings.TrimSpace("Correct! " + q.Explanation)
	} else {
		res.Feedback = strings.TrimSpace(fmt.Sprintf("Incorrect. The correct answer is %s. %s", q.CorrectLabel, q.Explanation))
	}
	return res
}

func (e *Engine) scoreSubjective(ctx context.Context, res ScoredResult, q exam.SelectedQuestion, answer string) ScoredResult {
	in := GradeInput{
		Question: q.Prompt,
		MaxMarks: q.Marks,
		Answer:   answer,
	}
	if q.Rubric != nil {
		in.KeyPoints = q.Rubric.KeyPoints
		in.SampleAnswer = q.Rubric.SampleAnswer
		in.ExpectedLength = q.Rubric.ExpectedLength
	}

	grade, err := e.grader.Grade(ctx, in)
	if err != nil {
		slog.Warn("grading failed, awarding half credit",
			"question_id", q.ID,
			"error", err)
		res.EvaluationType = EvalFallback
		res.Score = q.Marks / 2
		res.Feedback = FallbackFeedback
		return res
	}

	res.EvaluationType = EvalSubjective
	res.Score = clamp(grade.Score, 0, q.Marks)
	res.Correct = res.Score == q.Marks
	res.Feedback = grade.Feedback
	res.Strengths = grade.Strengths
	res.Improvements = grade.Improvements
	res.Suggestions = grade.Suggestions
	sub := grade.SubScores
	res.SubScores = &sub
	return res
}

func (e *Engine) summarize(s *exam.Session, results []ScoredResult) TestSummary {
	summary := TestSummary{
		TestName:        s.Name(),
		UserID:          s.UserID(),
		DurationSeconds: s.Duration().Seconds(),
		Timestamp:       e.now().UTC(),
		ByCategory:      make(map[question.Category]CategoryBreakdown),
	}

	for _, r := range results {
		summary.TotalScore += r.Score
		summary.MaxScore += r.MaxScore

		bd := summary.ByCategory[r.Category]
		bd.MaxScore += r.MaxScore
		bd.Score += r.Score
		switch r.EvaluationType {
		case EvalSkipped:
			bd.Skipped++
			summary.Skipped++
		case EvalNoAnswer:
		default:
			bd.Attempted++
			summary.Attempted++
		}
		if r.Correct {
			bd.Correct++
			summary.Correct++
		}
		summary.ByCategory[r.Category] = bd
	}

	if summary.MaxScore > 0 {
		summary.Percentage = float64(summary.TotalScore) / float64(summary.MaxScore) * 100
	}
	summary.Grade = gradeFor(summary.Percentage)
	return summary
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
