package question

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Bank holds the full set of generated questions for one chapter, keyed by
// category with insertion order preserved. A bank is assembled once by the
// generation service and never mutated afterwards; regeneration produces a
// new bank.
type Bank struct {
	id          string
	chapterName string
	createdAt   time.Time
	byCategory  map[Category][]Question
}

// NewBank creates an empty bank for a chapter.
func NewBank(chapterName string) *Bank {
	return &Bank{
		id:          uuid.NewString(),
		chapterName: chapterName,
		createdAt:   time.Now().UTC(),
		byCategory:  make(map[Category][]Question),
	}
}

// ID returns the bank identifier.
func (b *Bank) ID() string { return b.id }

// ChapterName returns the chapter this bank was generated from.
func (b *Bank) ChapterName() string { return b.chapterName }

// CreatedAt returns the bank creation timestamp.
func (b *Bank) CreatedAt() time.Time { return b.createdAt }

// Add validates and appends questions to a category, assigning stable IDs
// of the form "<category>_<index>". Only the generation service calls this,
// during bank assembly.
func (b *Bank) Add(cat Category, qs ...Question) error {
	if !cat.Valid() {
		return fmt.Errorf("unknown category %q", cat)
	}
	for _, q := range qs {
		q.Category = cat
		q.ID = fmt.Sprintf("%s_%d", cat, len(b.byCategory[cat])+1)
		if err := q.Validate(); err != nil {
			return err
		}
		b.byCategory[cat] = append(b.byCategory[cat], q)
	}
	return nil
}

// Questions returns a copy of the category's questions in generation order.
func (b *Bank) Questions(cat Category) []Question {
	qs := b.byCategory[cat]
	out := make([]Question, len(qs))
	copy(out, qs)
	return out
}

// Count returns the number of questions in a category.
func (b *Bank) Count(cat Category) int {
	return len(b.byCategory[cat])
}

// Total returns the number of questions across all categories.
func (b *Bank) Total() int {
	n := 0
	for _, qs := range b.byCategory {
		n += len(qs)
	}
	return n
}

// bankFile is the persisted JSON layout: metadata fields plus one array per
// category, keyed by category name. Stable so previously generated banks can
// be reloaded without regeneration.
type bankFile struct {
	BankID      string     `json:"bank_id"`
	ChapterName string     `json:"chapter_name"`
	CreatedAt   time.Time  `json:"created_at"`
	MCQ         []Question `json:"mcq"`
	OneMark     []Question `json:"1_mark"`
	TwoMark     []Question `json:"2_mark"`
	ThreeMark   []Question `json:"3_mark"`
	FiveMark    []Question `json:"5_mark"`
}

// MarshalJSON renders the persisted bank layout.
func (b *Bank) MarshalJSON() ([]byte, error) {
	return json.Marshal(bankFile{
		BankID:      b.id,
		ChapterName: b.chapterName,
		CreatedAt:   b.createdAt,
		MCQ:         b.byCategory[CategoryMCQ],
		OneMark:     b.byCategory[CategoryOneMark],
		TwoMark:     b.byCategory[CategoryTwoMark],
		ThreeMark:   b.byCategory[CategoryThreeMark],
		FiveMark:    b.byCategory[CategoryFiveMark],
	})
}

// UnmarshalJSON parses the persisted bank layout and revalidates every
// question.
func (b *Bank) UnmarshalJSON(data []byte) error {
	var f bankFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	b.id = f.BankID
	if b.id == "" {
		b.id = uuid.NewString()
	}
	b.chapterName = f.ChapterName
	b.createdAt = f.CreatedAt
	b.byCategory = make(map[Category][]Question)

	for cat, qs := range map[Category][]Question{
		CategoryMCQ:       f.MCQ,
		CategoryOneMark:   f.OneMark,
		CategoryTwoMark:   f.TwoMark,
		CategoryThreeMark: f.ThreeMark,
		CategoryFiveMark:  f.FiveMark,
	} {
		for i, q := range qs {
			q.Category = cat
			if q.ID == "" {
				q.ID = fmt.Sprintf("%s_%d", cat, i+1)
			}
			if err := q.Validate(); err != nil {
				return fmt.Errorf("bank %q: %w", f.BankID, err)
			}
			b.byCategory[cat] = append(b.byCategory[cat], q)
		}
	}
	return nil
}

// Save writes the bank to path, creating parent directories as needed.
func (b *Bank) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create bank dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write bank: %w", err)
	}
	return nil
}

// LoadBank reads a previously saved bank from path.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	var b Bank
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bank %s: %w", path, err)
	}
	return &b, nil
}
