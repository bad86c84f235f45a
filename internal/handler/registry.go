package handler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/priyank/bookquiz/internal/exam"
	"github.com/priyank/bookquiz/internal/question"
	"github.com/priyank/bookquiz/internal/scoring"
)

var errNotFound = errors.New("not found")

// bankRegistry holds generated banks in memory, keyed by bank id.
type bankRegistry struct {
	mu    sync.RWMutex
	banks map[string]*question.Bank
}

func newBankRegistry() *bankRegistry {
	return &bankRegistry{banks: make(map[string]*question.Bank)}
}

func (r *bankRegistry) put(b *question.Bank) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banks[b.ID()] = b
}

func (r *bankRegistry) get(id string) (*question.Bank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.banks[id]
	if !ok {
		return nil, fmt.Errorf("bank %s: %w", id, errNotFound)
	}
	return b, nil
}

// sessionEntry guards one session with its own lock; sessions are not safe
// for concurrent use on their own. The scored report is cached on finish so
// results stay retrievable.
type sessionEntry struct {
	mu      sync.Mutex
	session *exam.Session
	report  *scoring.Report
}

type sessionRegistry struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{entries: make(map[string]*sessionEntry)}
}

func (r *sessionRegistry) put(s *exam.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[s.ID()] = &sessionEntry{session: s}
}

func (r *sessionRegistry) get(id string) (*sessionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("test %s: %w", id, errNotFound)
	}
	return e, nil
}
