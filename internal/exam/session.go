package exam

import (
	"time"

	"github.com/google/uuid"

	"github.com/priyank/bookquiz/internal/question"
)

// State identifies where a test session is in its lifecycle.
type State string

const (
	// StateConfiguring is the initial state: questions selected, timer not
	// yet running.
	StateConfiguring State = "configuring"
	// StateInProgress means the timer is running and answers are accepted.
	StateInProgress State = "in_progress"
	// StateTimedOut means the time limit elapsed before an explicit finish.
	// No further answers are accepted.
	StateTimedOut State = "timed_out"
	// StateCompleted is terminal.
	StateCompleted State = "completed"
)

// AnswerSource records how an answer text was produced.
type AnswerSource string

const (
	SourceTyped AnswerSource = "typed"
	SourceVoice AnswerSource = "voice"
	SourceImage AnswerSource = "image"
)

// Answer is a recorded response to one question.
type Answer struct {
	Text   string       `json:"text"`
	Source AnswerSource `json:"source"`
}

// SelectedQuestion is a question copied out of a bank at selection time,
// tagged with the category and mark value it carried then. Later edits to
// the bank do not reach a running session.
type SelectedQuestion struct {
	question.Question
	Marks int `json:"marks"`
}

// Session is a timed test over a fixed, ordered set of selected questions.
// It is not safe for concurrent use; callers serialize access.
type Session struct {
	id        string
	name      string
	userID    string
	questions []SelectedQuestion
	timeLimit time.Duration

	state      State
	startedAt  time.Time
	finishedAt time.Time
	current    int
	answers    map[int]Answer
	skipped    map[int]bool

	now func() time.Time
}

func newSession(name, userID string, questions []SelectedQuestion, timeLimit time.Duration) *Session {
	return &Session{
		id:        uuid.NewString(),
		name:      name,
		userID:    userID,
		questions: questions,
		timeLimit: timeLimit,
		state:     StateConfiguring,
		answers:   make(map[int]Answer),
		skipped:   make(map[int]bool),
		now:       time.Now,
	}
}

func (s *Session) ID() string       { return s.id }
func (s *Session) Name() string     { return s.name }
func (s *Session) UserID() string   { return s.userID }
func (s *Session) State() State     { return s.state }
func (s *Session) CurrentIndex() int { return s.current }

func (s *Session) TimeLimit() time.Duration { return s.timeLimit }
func (s *Session) StartedAt() time.Time     { return s.startedAt }

// Questions returns the session's questions in presentation order.
func (s *Session) Questions() []SelectedQuestion {
	out := make([]SelectedQuestion, len(s.questions))
	copy(out, s.questions)
	return out
}

// TotalMarks is the maximum achievable score across all selected questions.
func (s *Session) TotalMarks() int {
	total := 0
	for _, q := range s.questions {
		total += q.Marks
	}
	return total
}

// AnswerFor reports the recorded answer for index, if any.
func (s *Session) AnswerFor(index int) (Answer, bool) {
	a, ok := s.answers[index]
	return a, ok
}

// IsSkipped reports whether index was explicitly skipped.
func (s *Session) IsSkipped(index int) bool { return s.skipped[index] }

// Answers returns a copy of all recorded answers keyed by question index.
func (s *Session) Answers() map[int]Answer {
	out := make(map[int]Answer, len(s.answers))
	for i, a := range s.answers {
		out[i] = a
	}
	return out
}

// Duration reports elapsed time: running total while in progress, final
// total once the session has ended.
func (s *Session) Duration() time.Duration {
	switch s.state {
	case StateConfiguring:
		return 0
	case StateInProgress:
		return s.now().Sub(s.startedAt)
	default:
		return s.finishedAt.Sub(s.startedAt)
	}
}

// Remaining reports time left on the clock, never negative.
func (s *Session) Remaining() time.Duration {
	if s.state != StateInProgress {
		return 0
	}
	left := s.timeLimit - s.now().Sub(s.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Start begins the test and starts the clock.
func (s *Session) Start() error {
	if s.state != StateConfiguring {
		return &InvalidStateError{Op: "start", State: s.state}
	}
	s.state = StateInProgress
	s.startedAt = s.now()
	s.current = 0
	return nil
}

// checkTimeout moves the session to timed out if the limit has elapsed.
// Called before every interaction; a zero limit times out immediately.
func (s *Session) checkTimeout() {
	if s.state != StateInProgress {
		return
	}
	if s.now().Sub(s.startedAt) >= s.timeLimit {
		s.state = StateTimedOut
		s.finishedAt = s.startedAt.Add(s.timeLimit)
	}
}

// RecordAnswer stores an answer for the question at index, replacing any
// earlier answer and clearing a prior skip. A question is never both
// answered and skipped.
func (s *Session) RecordAnswer(index int, ans Answer) error {
	s.checkTimeout()
	if s.state != StateInProgress {
		return &InvalidStateError{Op: "record_answer", State: s.state}
	}
	if index < 0 || index >= len(s.questions) {
		return ErrIndexOutOfRange
	}
	if ans.Source == "" {
		ans.Source = SourceTyped
	}
	s.answers[index] = ans
	delete(s.skipped, index)
	return nil
}

// Skip marks the question at index as deliberately skipped, discarding any
// recorded answer for it.
func (s *Session) Skip(index int) error {
	s.checkTimeout()
	if s.state != StateInProgress {
		return &InvalidStateError{Op: "skip", State: s.state}
	}
	if index < 0 || index >= len(s.questions) {
		return ErrIndexOutOfRange
	}
	s.skipped[index] = true
	delete(s.answers, index)
	return nil
}

// GoTo moves the cursor to the question at index.
func (s *Session) GoTo(index int) error {
	s.checkTimeout()
	if s.state != StateInProgress {
		return &InvalidStateError{Op: "goto", State: s.state}
	}
	if index < 0 || index >= len(s.questions) {
		return ErrIndexOutOfRange
	}
	s.current = index
	return nil
}

// Finish ends the test. Valid from in progress or timed out; a timed-out
// session keeps the limit as its duration.
func (s *Session) Finish() error {
	s.checkTimeout()
	switch s.state {
	case StateInProgress:
		s.state = StateCompleted
		s.finishedAt = s.now()
		return nil
	case StateTimedOut:
		s.state = StateCompleted
		return nil
	default:
		return &InvalidStateError{Op: "finish", State: s.state}
	}
}
