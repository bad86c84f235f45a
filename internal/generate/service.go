package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/priyank/bookquiz/internal/question"
)

// ErrNoChapterText is returned when bank generation is attempted with no
// usable chapter text. Extraction failures upstream surface here.
var ErrNoChapterText = fmt.Errorf("no chapter text available")

// Service assembles complete question banks, falling back to the
// deterministic generator per category when the primary one fails.
type Service struct {
	primary  Generator
	fallback Generator
}

// NewService creates a bank-assembly service. The fallback generator must be
// infallible; pass NewFallback() unless a test needs otherwise.
func NewService(primary, fallback Generator) *Service {
	return &Service{primary: primary, fallback: fallback}
}

// BuildBank generates a bank for the chapter with the given per-category
// counts. Categories with a zero count are skipped. A primary-generator
// failure for one category degrades that category to fallback questions
// without failing the whole bank.
func (s *Service) BuildBank(ctx context.Context, chapterText, chapterName string, counts map[question.Category]int) (*question.Bank, error) {
	if strings.TrimSpace(chapterText) == "" {
		return nil, ErrNoChapterText
	}
	if counts == nil {
		counts = DefaultCounts()
	}

	bank := question.NewBank(chapterName)

	for _, cat := range question.Categories() {
		count := counts[cat]
		if count <= 0 {
			continue
		}

		qs, err := s.primary.Generate(ctx, chapterText, cat, count)
		if err != nil {
			slog.Warn("question generation degraded to fallback",
				"category", cat, "count", count, "error", err)
			qs, err = s.fallback.Generate(ctx, chapterText, cat, count)
			if err != nil {
				return nil, fmt.Errorf("fallback generation for %s: %w", cat, err)
			}
		}

		if err := bank.Add(cat, qs...); err != nil {
			return nil, fmt.Errorf("add %s questions: %w", cat, err)
		}
	}

	if bank.Total() == 0 {
		return nil, fmt.Errorf("empty generation request: all category counts were zero")
	}
	return bank, nil
}
