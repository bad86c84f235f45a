package history

import (
	"github.com/priyank/bookquiz/internal/question"
	"github.com/priyank/bookquiz/internal/scoring"
)

// Trend summarizes a user's performance across stored tests.
type Trend struct {
	Tests             int     `json:"tests"`
	AveragePercentage float64 `json:"average_percentage"`
	BestPercentage    float64 `json:"best_percentage"`
	LatestPercentage  float64 `json:"latest_percentage"`
	LatestGrade       string  `json:"latest_grade"`
	// Percentages lists each test's percentage, newest first.
	Percentages []float64 `json:"percentages"`
	// CategoryAccuracy is the share of attempted questions answered with
	// full marks, per category, across all tests.
	CategoryAccuracy map[question.Category]float64 `json:"category_accuracy"`
}

// Trend loads a user's reports and aggregates them.
func (s *Store) Trend(userID string) (Trend, error) {
	reports, err := s.Query(userID)
	if err != nil {
		return Trend{}, err
	}
	return BuildTrend(reports), nil
}

// BuildTrend aggregates reports ordered newest first, as Query returns them.
func BuildTrend(reports []scoring.Report) Trend {
	trend := Trend{
		Tests:            len(reports),
		CategoryAccuracy: make(map[question.Category]float64),
	}
	if len(reports) == 0 {
		return trend
	}

	trend.LatestPercentage = reports[0].Summary.Percentage
	trend.LatestGrade = reports[0].Summary.Grade

	attempted := make(map[question.Category]int)
	correct := make(map[question.Category]int)
	var sum float64
	for _, r := range reports {
		trend.Percentages = append(trend.Percentages, r.Summary.Percentage)
		sum += r.Summary.Percentage
		if r.Summary.Percentage > trend.BestPercentage {
			trend.BestPercentage = r.Summary.Percentage
		}
		for cat, bd := range r.Summary.ByCategory {
			attempted[cat] += bd.Attempted
			correct[cat] += bd.Correct
		}
	}
	trend.AveragePercentage = sum / float64(len(reports))

	for cat, n := range attempted {
		if n > 0 {
			trend.CategoryAccuracy[cat] = float64(correct[cat]) / float64(n) * 100
		}
	}
	return trend
}
