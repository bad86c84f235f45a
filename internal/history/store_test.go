package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/priyank/bookquiz/internal/question"
	"github.com/priyank/bookquiz/internal/scoring"
)

func sampleReport(user string, ts time.Time, pct float64) *scoring.Report {
	grade := "F"
	if pct >= 90 {
		grade = "A+"
	}
	return &scoring.Report{
		Summary: scoring.TestSummary{
			TestName:   "Chapter 1 test",
			UserID:     user,
			TotalScore: int(pct / 10),
			MaxScore:   10,
			Percentage: pct,
			Grade:      grade,
			Timestamp:  ts,
			ByCategory: map[question.Category]scoring.CategoryBreakdown{
				question.CategoryMCQ: {Attempted: 2, Correct: 1, Score: 1, MaxScore: 2},
			},
		},
		Results: []scoring.ScoredResult{
			{QuestionID: "mcq_1", Category: question.CategoryMCQ, Score: 1, MaxScore: 1, Correct: true, EvaluationType: scoring.EvalMCQ},
			{QuestionID: "mcq_2", Category: question.CategoryMCQ, Score: 0, MaxScore: 1, EvaluationType: scoring.EvalMCQ},
		},
	}
}

func TestStore_AppendAndQueryRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	path, err := store.Append(sampleReport("alice", ts, 70))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if filepath.Base(path) != "results_20260314_092653.json" {
		t.Errorf("file name = %s", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != "alice" {
		t.Errorf("user dir = %s", filepath.Dir(path))
	}

	reports, err := store.Query("alice")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	got := reports[0]
	if got.Summary.Percentage != 70 || got.Summary.UserID != "alice" {
		t.Errorf("summary = %+v", got.Summary)
	}
	if len(got.Results) != 2 || got.Results[0].QuestionID != "mcq_1" {
		t.Errorf("results lost order: %+v", got.Results)
	}
}

func TestStore_QueryNewestFirst(t *testing.T) {
	store := NewStore(t.TempDir())
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, pct := range []float64{40, 60, 80} {
		if _, err := store.Append(sampleReport("bob", base.Add(time.Duration(i)*time.Hour), pct)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	reports, err := store.Query("bob")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(reports))
	}
	want := []float64{80, 60, 40}
	for i, r := range reports {
		if r.Summary.Percentage != want[i] {
			t.Errorf("report %d: percentage %v, want %v", i, r.Summary.Percentage, want[i])
		}
	}
}

func TestStore_TimestampCollisionGetsSuffix(t *testing.T) {
	store := NewStore(t.TempDir())
	ts := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)

	first, err := store.Append(sampleReport("carol", ts, 50))
	if err != nil {
		t.Fatalf("first append: %v", err)
	}
	second, err := store.Append(sampleReport("carol", ts, 60))
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if first == second {
		t.Fatal("collision overwrote the earlier report")
	}

	reports, err := store.Query("carol")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(reports) != 2 {
		t.Errorf("got %d reports, want 2", len(reports))
	}
}

func TestStore_UnknownUser(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Query("nobody"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("got %v, want ErrUnknownUser", err)
	}
}

func TestStore_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ts := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	if _, err := store.Append(sampleReport("dave", ts, 90)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dave", "results_garbage.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	reports, err := store.Query("dave")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("got %d reports, want the 1 valid one", len(reports))
	}
}

func TestStore_SanitizesUserID(t *testing.T) {
	store := NewStore(t.TempDir())
	ts := time.Date(2026, 5, 5, 5, 5, 5, 0, time.UTC)
	path, err := store.Append(sampleReport("eve/../../etc", ts, 10))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if filepath.Base(filepath.Dir(path)) != "eve_.._.._etc" {
		t.Errorf("user dir = %q", filepath.Base(filepath.Dir(path)))
	}
}

func TestBuildTrend(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	reports := []scoring.Report{
		*sampleReport("alice", base.Add(2*time.Hour), 90),
		*sampleReport("alice", base.Add(time.Hour), 60),
		*sampleReport("alice", base, 30),
	}

	trend := BuildTrend(reports)
	if trend.Tests != 3 {
		t.Errorf("tests = %d, want 3", trend.Tests)
	}
	if trend.AveragePercentage != 60 {
		t.Errorf("average = %v, want 60", trend.AveragePercentage)
	}
	if trend.BestPercentage != 90 {
		t.Errorf("best = %v, want 90", trend.BestPercentage)
	}
	if trend.LatestPercentage != 90 || trend.LatestGrade != "A+" {
		t.Errorf("latest = %v %q", trend.LatestPercentage, trend.LatestGrade)
	}
	if got := trend.CategoryAccuracy[question.CategoryMCQ]; got != 50 {
		t.Errorf("mcq accuracy = %v, want 50", got)
	}
}

func TestStore_Trend(t *testing.T) {
	store := NewStore(t.TempDir())
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i, pct := range []float64{50, 70} {
		if _, err := store.Append(sampleReport("frank", base.Add(time.Duration(i)*time.Hour), pct)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	trend, err := store.Trend("frank")
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if trend.Tests != 2 || trend.AveragePercentage != 60 || trend.LatestPercentage != 70 {
		t.Errorf("trend = %+v", trend)
	}

	if _, err := store.Trend("nobody"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("got %v, want ErrUnknownUser", err)
	}
}

func TestBuildTrend_Empty(t *testing.T) {
	trend := BuildTrend(nil)
	if trend.Tests != 0 || trend.AveragePercentage != 0 {
		t.Errorf("empty trend = %+v", trend)
	}
}
