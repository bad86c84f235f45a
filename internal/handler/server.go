// Package handler exposes the quiz workflow over HTTP for the browser
// frontend: document extraction, bank generation, timed tests, scoring,
// and history.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/priyank/bookquiz/internal/exam"
	"github.com/priyank/bookquiz/internal/extract"
	"github.com/priyank/bookquiz/internal/generate"
	"github.com/priyank/bookquiz/internal/history"
	"github.com/priyank/bookquiz/internal/scoring"
)

// Server wires the quiz components behind a chi router.
type Server struct {
	generator *generate.Service
	extractor *extract.Chain
	engine    *scoring.Engine
	store     *history.Store

	banks    *bankRegistry
	sessions *sessionRegistry
}

func NewServer(generator *generate.Service, extractor *extract.Chain, engine *scoring.Engine, store *history.Store) *Server {
	return &Server{
		generator: generator,
		extractor: extractor,
		engine:    engine,
		store:     store,
		banks:     newBankRegistry(),
		sessions:  newSessionRegistry(),
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/documents/extract", s.handleExtract)

		r.Post("/banks", s.handleCreateBank)
		r.Get("/banks/{bankID}", s.handleGetBank)

		r.Post("/tests", s.handleCreateTest)
		r.Route("/tests/{testID}", func(r chi.Router) {
			r.Get("/", s.handleGetTest)
			r.Post("/start", s.handleStartTest)
			r.Post("/answers", s.handleRecordAnswer)
			r.Post("/skip", s.handleSkip)
			r.Post("/goto", s.handleGoTo)
			r.Post("/finish", s.handleFinish)
			r.Get("/results", s.handleResults)
		})

		r.Get("/users/{userID}/history", s.handleHistory)
		r.Get("/users/{userID}/trend", s.handleTrend)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"latency_ms", time.Since(start).Milliseconds())
	})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps domain errors to HTTP statuses: bad requests get
// 400, wrong-state operations get 409, unknown ids get 404.
func writeDomainError(w http.ResponseWriter, err error) {
	var cfgErr *exam.ConfigurationError
	var stateErr *exam.InvalidStateError
	switch {
	case errors.As(err, &cfgErr):
		writeError(w, http.StatusBadRequest, cfgErr.Error())
	case errors.As(err, &stateErr):
		writeError(w, http.StatusConflict, stateErr.Error())
	case errors.Is(err, exam.ErrIndexOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, history.ErrUnknownUser):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, extract.ErrUnsupportedFormat), errors.Is(err, extract.ErrEmptyDocument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, generate.ErrNoChapterText):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
