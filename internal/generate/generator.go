// Package generate produces question banks from chapter text. The real work
// is delegated to an LLM provider; a deterministic fallback generator keeps
// the pipeline moving when the provider is unavailable or returns garbage.
package generate

import (
	"context"
	"time"

	"github.com/priyank/bookquiz/internal/question"
)

// Generator produces questions of one category from chapter text.
type Generator interface {
	// Generate returns count questions of the given category. Every returned
	// question satisfies question.Validate.
	Generate(ctx context.Context, chapterText string, cat question.Category, count int) ([]question.Question, error)
}

// Config bounds a generation request.
type Config struct {
	// MaxTokens is the response token budget per category batch.
	MaxTokens int

	// Temperature for generation. Grading uses a lower value; question
	// generation benefits from some variety.
	Temperature float64

	// MaxChapterChars truncates the chapter excerpt included in the prompt.
	MaxChapterChars int

	// RequestTimeout bounds a single category batch, fallback kicks in after.
	RequestTimeout time.Duration
}

// DefaultConfig returns the standard generation limits.
func DefaultConfig() Config {
	return Config{
		MaxTokens:       4096,
		Temperature:     0.7,
		MaxChapterChars: 6000,
		RequestTimeout:  60 * time.Second,
	}
}

// DefaultCounts is the per-category question count used when the caller does
// not customize quantities.
func DefaultCounts() map[question.Category]int {
	return map[question.Category]int{
		question.CategoryMCQ:       10,
		question.CategoryOneMark:   8,
		question.CategoryTwoMark:   6,
		question.CategoryThreeMark: 5,
		question.CategoryFiveMark:  4,
	}
}
