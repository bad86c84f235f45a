package scoring

import (
	"time"

	"github.com/priyank/bookquiz/internal/question"
)

// EvaluationType records how a question's score was produced.
type EvaluationType string

const (
	// EvalMCQ is a deterministic multiple-choice comparison.
	EvalMCQ EvaluationType = "mcq"
	// EvalSubjective is a rubric-based grade from the grading collaborator.
	EvalSubjective EvaluationType = "subjective"
	// EvalFallback is the half-credit award used when automatic grading
	// failed. The result carries a manual-review note.
	EvalFallback EvaluationType = "fallback"
	// EvalSkipped means the question was deliberately skipped.
	EvalSkipped EvaluationType = "skipped"
	// EvalNoAnswer means the question was never touched.
	EvalNoAnswer EvaluationType = "no_answer"
)

// SubScores breaks a subjective grade into dimensions, each on a 0-10 scale.
type SubScores struct {
	Accuracy     int `json:"accuracy"`
	Completeness int `json:"completeness"`
	Clarity      int `json:"clarity"`
	Relevance    int `json:"relevance"`
}

// ScoredResult is the outcome for a single question.
type ScoredResult struct {
	QuestionID     string            `json:"question_id"`
	Category       question.Category `json:"category"`
	Prompt         string            `json:"question"`
	Answer         string            `json:"answer,omitempty"`
	Score          int               `json:"score"`
	MaxScore       int               `json:"max_score"`
	Correct        bool              `json:"correct"`
	Feedback       string            `json:"feedback"`
	Strengths      []string          `json:"strengths,omitempty"`
	Improvements   []string          `json:"improvements,omitempty"`
	Suggestions    []string          `json:"suggestions,omitempty"`
	SubScores      *SubScores        `json:"sub_scores,omitempty"`
	EvaluationType EvaluationType    `json:"evaluation_type"`
}

// CategoryBreakdown aggregates results within one category.
type CategoryBreakdown struct {
	Attempted int `json:"attempted"`
	Skipped   int `json:"skipped"`
	Correct   int `json:"correct"`
	Score     int `json:"score"`
	MaxScore  int `json:"max_score"`
}

// TestSummary is the headline outcome of a completed test.
type TestSummary struct {
	TestName        string                                  `json:"test_name"`
	UserID          string                                  `json:"user_id"`
	TotalScore      int                                     `json:"total_score"`
	MaxScore        int                                     `json:"max_score"`
	Percentage      float64                                 `json:"percentage"`
	Grade           string                                  `json:"grade"`
	Attempted       int                                     `json:"attempted"`
	Skipped         int                                     `json:"skipped"`
	Correct         int                                     `json:"correct"`
	DurationSeconds float64                                 `json:"duration_seconds"`
	Timestamp       time.Time                               `json:"timestamp"`
	ByCategory      map[question.Category]CategoryBreakdown `json:"by_category"`
}

// Report bundles the summary with every per-question result, in the
// session's presentation order.
type Report struct {
	Summary TestSummary    `json:"summary"`
	Results []ScoredResult `json:"results"`
}

// gradeFor maps a percentage to a letter grade.
func gradeFor(pct float64) string {
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B"
	case pct >= 60:
		return "C"
	case pct >= 50:
		return "D"
	default:
		return "F"
	}
}
