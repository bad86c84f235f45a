package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.Query(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := s.store.Trend(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}
