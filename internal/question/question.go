package question

import "fmt"

// Category is a question's kind: multiple-choice, or one of the fixed-mark
// open-ended tiers.
type Category string

const (
	CategoryMCQ       Category = "mcq"
	CategoryOneMark   Category = "1_mark"
	CategoryTwoMark   Category = "2_mark"
	CategoryThreeMark Category = "3_mark"
	CategoryFiveMark  Category = "5_mark"
)

// categoryMarks fixes the mark value attainable per category.
var categoryMarks = map[Category]int{
	CategoryMCQ:       1,
	CategoryOneMark:   1,
	CategoryTwoMark:   2,
	CategoryThreeMark: 3,
	CategoryFiveMark:  5,
}

// Categories returns all categories in declaration order. The order is
// meaningful: test assembly concatenates selections in this order.
func Categories() []Category {
	return []Category{
		CategoryMCQ,
		CategoryOneMark,
		CategoryTwoMark,
		CategoryThreeMark,
		CategoryFiveMark,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryMarks[c]
	return ok
}

// MarkValue returns the maximum score attainable for a question of this
// category. Returns 0 for unknown categories.
func (c Category) MarkValue() int {
	return categoryMarks[c]
}

// Objective reports whether answers in this category are scored
// deterministically (multiple-choice) rather than by the grading collaborator.
func (c Category) Objective() bool {
	return c == CategoryMCQ
}

// Label returns a human-readable category name, e.g. "2 Mark Questions".
func (c Category) Label() string {
	switch c {
	case CategoryMCQ:
		return "Multiple Choice Questions"
	case CategoryOneMark:
		return "1 Mark Questions"
	case CategoryTwoMark:
		return "2 Mark Questions"
	case CategoryThreeMark:
		return "3 Mark Questions"
	case CategoryFiveMark:
		return "5 Mark Questions"
	default:
		return string(c)
	}
}

// Rubric holds the grading guidance attached to an open-ended question.
type Rubric struct {
	// KeyPoints the grader expects the answer to cover.
	KeyPoints []string `json:"key_points"`

	// SampleAnswer is a model answer, never shown to the student.
	SampleAnswer string `json:"sample_answer"`

	// ExpectedLength hints at the expected depth, e.g. "Brief explanation".
	ExpectedLength string `json:"expected_length,omitempty"`
}

// Question is one generated question. Exactly one of the two variant field
// groups is populated, determined by Category: multiple-choice questions
// carry Options and CorrectLabel; open-ended questions carry a Rubric.
// Questions are created in bulk by the generation collaborator and are
// immutable thereafter.
type Question struct {
	// ID is a stable identifier of the form "<category>_<index>", assigned
	// when the question is added to a bank.
	ID string `json:"id"`

	Category Category `json:"category"`
	Prompt   string   `json:"question"`

	// Options maps answer labels (A-D) to option text. MCQ only.
	Options map[string]string `json:"options,omitempty"`

	// CorrectLabel is the label of the correct option. MCQ only.
	CorrectLabel string `json:"correct_answer,omitempty"`

	// Explanation is shown with MCQ feedback after scoring.
	Explanation string `json:"explanation,omitempty"`

	// Hint is an optional short hint the student can request.
	Hint string `json:"hint,omitempty"`

	// Rubric is the grading guidance. Open-ended only.
	Rubric *Rubric `json:"rubric,omitempty"`

	// Fallback marks questions fabricated by the deterministic placeholder
	// generator when the generation collaborator was unavailable.
	Fallback bool `json:"fallback,omitempty"`
}

// NewMultipleChoice constructs an MCQ question.
func NewMultipleChoice(prompt string, options map[string]string, correctLabel, explanation string) Question {
	return Question{
		Category:     CategoryMCQ,
		Prompt:       prompt,
		Options:      options,
		CorrectLabel: correctLabel,
		Explanation:  explanation,
	}
}

// NewOpenEnded constructs an open-ended question in the given mark tier.
func NewOpenEnded(category Category, prompt string, rubric Rubric) Question {
	return Question{
		Category: category,
		Prompt:   prompt,
		Rubric:   &rubric,
	}
}

// MarkValue returns the maximum score for this question.
func (q Question) MarkValue() int {
	return q.Category.MarkValue()
}

// Validate checks the variant invariant: MCQ questions must carry an option
// set with a matching correct label and no rubric; open-ended questions must
// carry a rubric and no option set.
func (q Question) Validate() error {
	if !q.Category.Valid() {
		return fmt.Errorf("question %q: unknown category %q", q.ID, q.Category)
	}
	if q.Prompt == "" {
		return fmt.Errorf("question %q: empty prompt", q.ID)
	}

	if q.Category.Objective() {
		if len(q.Options) < 2 {
			return fmt.Errorf("question %q: multiple-choice needs at least 2 options, got %d", q.ID, len(q.Options))
		}
		if _, ok := q.Options[q.CorrectLabel]; !ok {
			return fmt.Errorf("question %q: correct label %q not in option set", q.ID, q.CorrectLabel)
		}
		if q.Rubric != nil {
			return fmt.Errorf("question %q: multiple-choice must not carry a rubric", q.ID)
		}
		return nil
	}

	if q.Rubric == nil {
		return fmt.Errorf("question %q: open-ended needs a rubric", q.ID)
	}
	if len(q.Options) > 0 || q.CorrectLabel != "" {
		return fmt.Errorf("question %q: open-ended must not carry an option set", q.ID)
	}
	return nil
}
