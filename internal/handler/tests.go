package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/priyank/bookquiz/internal/exam"
	"github.com/priyank/bookquiz/internal/question"
)

type createTestRequest struct {
	BankID           string                    `json:"bank_id"`
	Name             string                    `json:"name"`
	UserID           string                    `json:"user_id"`
	TimeLimitSeconds int                       `json:"time_limit_seconds"`
	Counts           map[question.Category]int `json:"counts"`
	Randomize        bool                      `json:"randomize"`
}

// questionView is what a test taker sees: no correct label, explanation, or
// rubric until results.
type questionView struct {
	ID       string            `json:"id"`
	Category question.Category `json:"category"`
	Marks    int               `json:"marks"`
	Prompt   string            `json:"question"`
	Options  map[string]string `json:"options,omitempty"`
	Answered bool              `json:"answered"`
	Skipped  bool              `json:"skipped"`
}

type testView struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	UserID           string         `json:"user_id"`
	State            exam.State     `json:"state"`
	CurrentIndex     int            `json:"current_index"`
	TotalMarks       int            `json:"total_marks"`
	TimeLimitSeconds float64        `json:"time_limit_seconds"`
	RemainingSeconds float64        `json:"remaining_seconds"`
	Questions        []questionView `json:"questions"`
}

func viewOf(s *exam.Session) testView {
	qs := s.Questions()
	views := make([]questionView, len(qs))
	for i, q := range qs {
		_, answered := s.AnswerFor(i)
		views[i] = questionView{
			ID:       q.ID,
			Category: q.Category,
			Marks:    q.Marks,
			Prompt:   q.Prompt,
			Options:  q.Options,
			Answered: answered,
			Skipped:  s.IsSkipped(i),
		}
	}
	return testView{
		ID:               s.ID(),
		Name:             s.Name(),
		UserID:           s.UserID(),
		State:            s.State(),
		CurrentIndex:     s.CurrentIndex(),
		TotalMarks:       s.TotalMarks(),
		TimeLimitSeconds: s.TimeLimit().Seconds(),
		RemainingSeconds: s.Remaining().Seconds(),
		Questions:        views,
	}
}

func (s *Server) handleCreateTest(w http.ResponseWriter, r *http.Request) {
	var req createTestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	bank, err := s.banks.get(req.BankID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	session, err := exam.Build(bank, exam.Policy{
		Name:      req.Name,
		UserID:    req.UserID,
		TimeLimit: time.Duration(req.TimeLimitSeconds) * time.Second,
		Counts:    req.Counts,
		Randomize: req.Randomize,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.sessions.put(session)
	writeJSON(w, http.StatusCreated, viewOf(session))
}

// withSession runs fn under the session's lock and writes the refreshed
// view on success.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*sessionEntry) error) {
	entry, err := s.sessions.get(chi.URLParam(r, "testID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := fn(entry); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(entry.session))
}

func (s *Server) handleGetTest(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(*sessionEntry) error { return nil })
}

func (s *Server) handleStartTest(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *sessionEntry) error { return e.session.Start() })
}

type answerRequest struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

func (s *Server) handleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	s.withSession(w, r, func(e *sessionEntry) error {
		return e.session.RecordAnswer(req.Index, exam.Answer{
			Text:   req.Text,
			Source: exam.AnswerSource(req.Source),
		})
	})
}

type indexRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	s.withSession(w, r, func(e *sessionEntry) error { return e.session.Skip(req.Index) })
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	s.withSession(w, r, func(e *sessionEntry) error { return e.session.GoTo(req.Index) })
}

// handleFinish completes the test, scores it, and persists the report. A
// history write failure is logged but does not lose the report.
func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	entry, err := s.sessions.get(chi.URLParam(r, "testID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.session.Finish(); err != nil {
		writeDomainError(w, err)
		return
	}
	report, err := s.engine.Score(r.Context(), entry.session)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	entry.report = report

	if _, err := s.store.Append(report); err != nil {
		slog.Error("persisting test report failed", "test_id", entry.session.ID(), "error", err)
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	entry, err := s.sessions.get(chi.URLParam(r, "testID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.report == nil {
		writeError(w, http.StatusConflict, "test has not been finished")
		return
	}
	writeJSON(w, http.StatusOK, entry.report)
}
