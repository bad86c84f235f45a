package exam

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/priyank/bookquiz/internal/question"
)

// Policy describes which questions a test should draw from a bank and how
// the session is configured.
type Policy struct {
	Name      string                    `json:"name"`
	UserID    string                    `json:"user_id"`
	TimeLimit time.Duration             `json:"time_limit"`
	Counts    map[question.Category]int `json:"counts"`
	Randomize bool                      `json:"randomize"`
}

// Build assembles a new session from bank according to policy. Questions
// are drawn per category and concatenated in the fixed category order,
// objective first. Requests that exceed what the bank holds are rejected,
// never silently clamped.
func Build(bank *question.Bank, policy Policy) (*Session, error) {
	if policy.TimeLimit < 0 {
		return nil, &ConfigurationError{Reason: "time limit must not be negative"}
	}

	total := 0
	for cat, n := range policy.Counts {
		if !cat.Valid() {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown category %q", cat)}
		}
		if n < 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("negative count for %s", cat)}
		}
		if avail := bank.Count(cat); n > avail {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("requested %d %s questions, bank has %d", n, cat, avail),
			}
		}
		total += n
	}
	if total == 0 {
		return nil, &ConfigurationError{Reason: "no questions selected"}
	}

	var selected []SelectedQuestion
	for _, cat := range question.Categories() {
		n := policy.Counts[cat]
		if n == 0 {
			continue
		}
		pool := bank.Questions(cat)
		if policy.Randomize {
			rand.Shuffle(len(pool), func(i, j int) {
				pool[i], pool[j] = pool[j], pool[i]
			})
		}
		for _, q := range pool[:n] {
			selected = append(selected, SelectedQuestion{Question: q, Marks: cat.MarkValue()})
		}
	}

	return newSession(policy.Name, policy.UserID, selected, policy.TimeLimit), nil
}
