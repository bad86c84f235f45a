package scoring

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/priyank/bookquiz/internal/exam"
	"github.com/priyank/bookquiz/internal/question"
)

// stubGrader returns queued results in order, or a fixed error.
type stubGrader struct {
	results []GradeResult
	err     error
	calls   int
}

func (g *stubGrader) Grade(_ context.Context, _ GradeInput) (*GradeResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if len(g.results) == 0 {
		return nil, errors.New("stub grader: no queued results")
	}
	res := g.results[0]
	g.results = g.results[1:]
	return &res, nil
}

func mcqBank(t *testing.T) *question.Bank {
	t.Helper()
	bank := question.NewBank("Chapter 3")
	qs := []question.Question{
		question.NewMultipleChoice("Q1?", map[string]string{"A": "a1", "B": "b1", "C": "c1", "D": "d1"}, "A", "Because A."),
		question.NewMultipleChoice("Q2?", map[string]string{"A": "a2", "B": "b2", "C": "c2", "D": "d2"}, "B", "Because B."),
		question.NewMultipleChoice("Q3?", map[string]string{"A": "a3", "B": "b3", "C": "c3", "D": "d3"}, "C", "Because C."),
	}
	if err := bank.Add(question.CategoryMCQ, qs...); err != nil {
		t.Fatalf("add mcq: %v", err)
	}
	return bank
}

func addOpenEnded(t *testing.T, bank *question.Bank, cat question.Category, prompts ...string) {
	t.Helper()
	for _, p := range prompts {
		q := question.NewOpenEnded(cat, p, question.Rubric{
			KeyPoints:      []string{"a key point"},
			SampleAnswer:   "A sample answer.",
			ExpectedLength: "2-3 sentences",
		})
		if err := bank.Add(cat, q); err != nil {
			t.Fatalf("add %s: %v", cat, err)
		}
	}
}

func completedSession(t *testing.T, bank *question.Bank, counts map[question.Category]int, fill func(*exam.Session)) *exam.Session {
	t.Helper()
	s, err := exam.Build(bank, exam.Policy{
		Name:      "scoring test",
		UserID:    "alice",
		TimeLimit: time.Hour,
		Counts:    counts,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if fill != nil {
		fill(s)
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	return s
}

func TestScore_AllCorrectMCQ(t *testing.T) {
	s := completedSession(t, mcqBank(t), map[question.Category]int{question.CategoryMCQ: 3}, func(s *exam.Session) {
		for i, label := range []string{"A", "B", "C"} {
			if err := s.RecordAnswer(i, exam.Answer{Text: label}); err != nil {
				t.Fatalf("answer %d: %v", i, err)
			}
		}
	})

	report, err := NewEngine(&stubGrader{}).Score(context.Background(), s)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	sum := report.Summary
	if sum.TotalScore != 3 || sum.MaxScore != 3 {
		t.Errorf("score %d/%d, want 3/3", sum.TotalScore, sum.MaxScore)
	}
	if sum.Percentage != 100 {
		t.Errorf("percentage = %v, want 100", sum.Percentage)
	}
	if sum.Grade != "A+" {
		t.Errorf("grade = %q, want A+", sum.Grade)
	}
	for _, r := range report.Results {
		if !r.Correct || r.EvaluationType != EvalMCQ {
			t.Errorf("result %s: correct=%v type=%s", r.QuestionID, r.Correct, r.EvaluationType)
		}
	}
}

func TestScore_MCQCaseInsensitive(t *testing.T) {
	s := completedSession(t, mcqBank(t), map[question.Category]int{question.CategoryMCQ: 1}, func(s *exam.Session) {
		if err := s.RecordAnswer(0, exam.Answer{Text: " a "}); err != nil {
			t.Fatalf("answer: %v", err)
		}
	})

	report, err := NewEngine(&stubGrader{}).Score(context.Background(), s)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	r := report.Results[0]
	if !r.Correct || r.Score != 1 {
		t.Errorf("got correct=%v score=%d, want a full-credit match", r.Correct, r.Score)
	}
	if r.Feedback != "Correct! Because A." {
		t.Errorf("feedback = %q", r.Feedback)
	}
}

func TestScore_IncorrectMCQNamesCorrectLabel(t *testing.T) {
	s := completedSession(t, mcqBank(t), map[question.Category]int{question.CategoryMCQ: 1}, func(s *exam.Session) {
		if err := s.RecordAnswer(0, exam.Answer{Text: "D"}); err != nil {
			t.Fatalf("answer: %v", err)
		}
	})

	report, err := NewEngine(&stubGrader{}).Score(context.Background(), s)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	r := report.Results[0]
	if r.Correct || r.Score != 0 {
		t.Errorf("got correct=%v score=%d, want zero credit", r.Correct, r.Score)
	}
	if r.Feedback != "Incorrect. The correct answer is A. Because A." {
		t.Errorf("feedback = %q", r.Feedback)
	}
}

func TestScore_UntouchedTestScoresZero(t *testing.T) {
	s := completedSession(t, mcqBank(t), map[question.Category]int{question.CategoryMCQ: 3}, nil)

	report, err := NewEngine(&stubGrader{}).Score(context.Background(), s)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if report.Summary.TotalScore != 0 {
		t.Errorf("total = %d, want 0", report.Summary.TotalScore)
	}
	if report.Summary.Grade != "F" {
		t.Errorf("grade = %q, want F", report.Summary.Grade)
	}
	for _, r := range report.Results {
		if r.EvaluationType != EvalNoAnswer {
			t.Errorf("result %s: type %s, want %s", r.QuestionID, r.EvaluationType, EvalNoAnswer)
		}
		if r.Feedback != "No answer provided." {
			t.Errorf("result %s: feedback %q", r.QuestionID, r.Feedback)
		}
	}
}

func TestScore_GraderFailureAwardsHalfCredit(t *testing.T) {
	bank := question.NewBank("Chapter 5")
	addOpenEnded(t, bank, question.CategoryFiveMark, "Discuss the theme in depth.")
	s := completedSession(t, bank, map[question.Category]int{question.CategoryFiveMark: 1}, func(s *exam.Session) {
		if err := s.RecordAnswer(0, exam.Answer{Text: "A long considered answer."}); err != nil {
			t.Fatalf("answer: %v", err)
		}
	})

	grader := &stubGrader{err: errors.New("provider unavailable")}
	report, err := NewEngine(grader).Score(context.Background(), s)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	r := report.Results[0]
	if r.EvaluationType != EvalFallback {
		t.Errorf("type = %s, want %s", r.EvaluationType, EvalFallback)
	}
	if r.Score != 2 {
		t.Errorf("score = %d, want 2 (half of 5, rounded down)", r.Score)
	}
	if r.Feedback != FallbackFeedback {
		t.Errorf("feedback = %q", r.Feedback)
	}
}

func TestScore_ClampsGraderScore(t *testing.T) {
	bank := question.NewBank("Chapter 5")
	addOpenEnded(t, bank, question.CategoryTwoMark, "Explain briefly.")
	s := completedSession(t, bank, map[question.Category]int{question.CategoryTwoMark: 1}, func(s *exam.Session) {
		if err := s.RecordAnswer(0, exam.Answer{Text: "An answer."}); err != nil {
			t.Fatalf("answer: %v", err)
		}
	})

	grader := &stubGrader{results: []GradeResult{{Score: 99, Feedback: "Excellent."}}}
	report, err := NewEngine(grader).Score(context.Background(), s)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	r := report.Results[0]
	if r.Score != 2 {
		t.Errorf("score = %d, want clamp to 2", r.Score)
	}
	if !r.Correct {
		t.Error("full marks after clamping should count as correct")
	}
}

func TestScore_MixedSessionBreakdown(t *testing.T) {
	bank := mcqBank(t)
	addOpenEnded(t, bank, question.CategoryTwoMark, "Explain one.", "Explain two.")

	s := completedSession(t, bank, map[question.Category]int{
		question.CategoryMCQ:     3,
		question.CategoryTwoMark: 2,
	}, func(s *exam.Session) {
		for i, label := range []string{"A", "B", "D"} {
			if err := s.RecordAnswer(i, exam.Answer{Text: label}); err != nil {
				t.Fatalf("answer %d: %v", i, err)
			}
		}
		for _, i := range []int{3, 4} {
			if err := s.Skip(i); err != nil {
				t.Fatalf("skip %d: %v", i, err)
			}
		}
	})

	report, err := NewEngine(&stubGrader{}).Score(context.Background(), s)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	sum := report.Summary
	if sum.TotalScore != 2 || sum.MaxScore != 7 {
		t.Errorf("score %d/%d, want 2/7", sum.TotalScore, sum.MaxScore)
	}
	if math.Abs(sum.Percentage-100.0*2/7) > 1e-9 {
		t.Errorf("percentage = %v", sum.Percentage)
	}
	if sum.Grade != "F" {
		t.Errorf("grade = %q, want F", sum.Grade)
	}
	if sum.Attempted != 3 || sum.Skipped != 2 || sum.Correct != 2 {
		t.Errorf("counts attempted=%d skipped=%d correct=%d, want 3/2/2", sum.Attempted, sum.Skipped, sum.Correct)
	}

	mcq := sum.ByCategory[question.CategoryMCQ]
	if mcq.Attempted != 3 || mcq.Correct != 2 || mcq.Score != 2 || mcq.MaxScore != 3 {
		t.Errorf("mcq breakdown = %+v", mcq)
	}
	twoMark := sum.ByCategory[question.CategoryTwoMark]
	if twoMark.Skipped != 2 || twoMark.Attempted != 0 || twoMark.Score != 0 || twoMark.MaxScore != 4 {
		t.Errorf("2_mark breakdown = %+v", twoMark)
	}
	for _, i := range []int{3, 4} {
		if report.Results[i].EvaluationType != EvalSkipped {
			t.Errorf("result %d: type %s, want %s", i, report.Results[i].EvaluationType, EvalSkipped)
		}
		if report.Results[i].Feedback != "Question was skipped." {
			t.Errorf("result %d: feedback %q", i, report.Results[i].Feedback)
		}
	}
}

func TestScore_Idempotent(t *testing.T) {
	s := completedSession(t, mcqBank(t), map[question.Category]int{question.CategoryMCQ: 3}, func(s *exam.Session) {
		if err := s.RecordAnswer(0, exam.Answer{Text: "A"}); err != nil {
			t.Fatalf("answer: %v", err)
		}
		if err := s.Skip(1); err != nil {
			t.Fatalf("skip: %v", err)
		}
	})

	engine := NewEngine(&stubGrader{})
	first, err := engine.Score(context.Background(), s)
	if err != nil {
		t.Fatalf("first score: %v", err)
	}
	second, err := engine.Score(context.Background(), s)
	if err != nil {
		t.Fatalf("second score: %v", err)
	}
	if first.Summary.TotalScore != second.Summary.TotalScore {
		t.Errorf("totals differ: %d vs %d", first.Summary.TotalScore, second.Summary.TotalScore)
	}
	for i := range first.Results {
		if first.Results[i].Score != second.Results[i].Score || first.Results[i].Feedback != second.Results[i].Feedback {
			t.Errorf("result %d changed between runs", i)
		}
	}
}

func TestScore_RequiresCompletedSession(t *testing.T) {
	s, err := exam.Build(mcqBank(t), exam.Policy{
		TimeLimit: time.Hour,
		Counts:    map[question.Category]int{question.CategoryMCQ: 1},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	_, err = NewEngine(&stubGrader{}).Score(context.Background(), s)
	var stateErr *exam.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("got %v, want InvalidStateError", err)
	}
	if stateErr.Op != "score" {
		t.Errorf("op = %q, want score", stateErr.Op)
	}
}

func TestGradeFor_Bands(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{100, "A+"}, {90, "A+"}, {89.9, "A"}, {80, "A"},
		{79, "B"}, {70, "B"}, {69, "C"}, {60, "C"},
		{59, "D"}, {50, "D"}, {49.9, "F"}, {0, "F"},
	}
	for _, tc := range cases {
		if got := gradeFor(tc.pct); got != tc.want {
			t.Errorf("gradeFor(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}
