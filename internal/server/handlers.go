package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-agents/internal/ingestion"
	"github.com/jonathan/interview-agents/internal/pipeline"
	"github.com/jonathan/interview-agents/internal/store"
)

// maxUploadBytes caps CV uploads at 10 MB.
const maxUploadBytes = 10 << 20

// handleStartInterview runs the full interview pipeline synchronously and
// returns the three agent reports.
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		s.log.Error("interview run failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result.Reports)
}

// handleUploadCV accepts a CV file upload. PDF uploads are parsed to verify
// they are readable; the extracted text is returned alongside the
// confirmation so callers can feed it straight into start-interview.
func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to read upload: "+err.Error())
		return
	}

	response := map[string]string{
		"filename": header.Filename,
		"status":   "uploaded",
	}

	if strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		text, err := ingestion.FromPDF(header.Filename, data)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		response["text"] = text
	} else {
		response["text"] = string(data)
	}

	s.jsonResponse(w, http.StatusOK, response)
}

// handleListInterviews lists recent persisted interviews.
func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "persistence is not configured")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	interviews, err := s.store.ListInterviews(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, interviews)
}

// handleGetInterview returns one interview and its stage reports.
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "persistence is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid interview id")
		return
	}

	interview, err := s.store.GetInterview(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if interview == nil {
		s.errorResponse(w, http.StatusNotFound, "interview not found")
		return
	}

	reports, err := s.store.GetStageReports(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"interview": interview,
		"reports":   reports,
	})
}

// handleDeleteInterview removes an interview and its stage reports.
func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "persistence is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid interview id")
		return
	}

	if err := s.store.DeleteInterview(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "interview not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleCandidateHistory returns the most recent indexed interview material
// for one candidate.
func (s *Server) handleCandidateHistory(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		s.errorResponse(w, http.StatusNotImplemented, "search is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	hits, err := s.search.CandidateHistory(r.Context(), id.String(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, hits)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"detail": message})
}
