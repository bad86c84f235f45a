package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/priyank/bookquiz/internal/question"
)

// maxUploadBytes caps chapter document uploads.
const maxUploadBytes = 25 << 20

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad multipart form")
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "document file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload")
		return
	}

	text, err := s.extractor.Extract(r.Context(), header.Filename, data)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"filename":     header.Filename,
		"chapter_text": text,
	})
}

type createBankRequest struct {
	ChapterName string                    `json:"chapter_name"`
	ChapterText string                    `json:"chapter_text"`
	Counts      map[question.Category]int `json:"counts"`
}

func (s *Server) handleCreateBank(w http.ResponseWriter, r *http.Request) {
	var req createBankRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	bank, err := s.generator.BuildBank(r.Context(), req.ChapterText, req.ChapterName, req.Counts)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.banks.put(bank)
	writeJSON(w, http.StatusCreated, bank)
}

func (s *Server) handleGetBank(w http.ResponseWriter, r *http.Request) {
	bank, err := s.banks.get(chi.URLParam(r, "bankID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bank)
}
