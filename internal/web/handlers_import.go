package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/kbimport/internal/core"
	"github.com/JonMunkholm/kbimport/internal/logging"
	"github.com/JonMunkholm/kbimport/internal/web/views"
)

// multipartOverhead is the allowance for form boundaries and headers on
// top of the file size limit.
const multipartOverhead = 1 << 20

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// LoadResponse is returned after a file is accepted for preview.
type LoadResponse struct {
	Summary core.PreviewSummary `json:"summary"`
	Session core.SessionInfo    `json:"session"`
}

func sessionParams(r *http.Request) (tenantID, sessionID string) {
	return chi.URLParam(r, "tenantID"), chi.URLParam(r, "sessionID")
}

func sessionURL(tenantID, sessionID string) string {
	return fmt.Sprintf("/api/tenants/%s/imports/%s", tenantID, sessionID)
}

// respondSession writes the session as JSON or, for HTMX, as the wizard partial.
func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, status int, info core.SessionInfo) {
	if !isHTMX(r) {
		writeJSON(w, status, info)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	component := views.Wizard(s.translator(r), sessionURL(info.TenantID, info.ID), info)
	if err := component.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render wizard", "error", err)
	}
}

// respondCurrent re-reads the session and writes it.
func (s *Server) respondCurrent(w http.ResponseWriter, r *http.Request) {
	tenantID, sessionID := sessionParams(r)
	info, err := s.service.Session(tenantID, sessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondSession(w, r, http.StatusOK, info)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	info, err := s.service.CreateSession(tenantID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Location", sessionURL(tenantID, info.ID))
	s.respondSession(w, r, http.StatusCreated, info)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.respondCurrent(w, r)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	tenantID, sessionID := sessionParams(r)
	if err := s.service.DeleteSession(tenantID, sessionID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUploadFile accepts a multipart "file" field and runs the Load step.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	tenantID, sessionID := sessionParams(r)

	// Unknown sessions are rejected before the body is read.
	if _, err := s.service.Session(tenantID, sessionID); err != nil {
		s.fail(w, r, err)
		return
	}

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(w, r, fmt.Errorf("%w: request body over %d bytes", core.ErrFileTooLarge, tooBig.Limit))
			return
		}
		s.fail(w, r, fmt.Errorf("%w: %w", core.ErrNoFile, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %w", core.ErrNoFile, err))
		return
	}
	defer file.Close()

	log := logging.WithFields(r.Context(),
		"tenant_id", tenantID,
		"session_id", sessionID,
		"file", header.Filename,
		"size", header.Size,
	)
	log.Debug("import file received")

	summary, err := s.service.LoadFile(r.Context(), tenantID, sessionID, header.Filename, header.Size, file)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	info, err := s.service.Session(tenantID, sessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if isHTMX(r) {
		s.respondSession(w, r, http.StatusOK, info)
		return
	}
	writeJSON(w, http.StatusOK, LoadResponse{Summary: summary, Session: info})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	tenantID, sessionID := sessionParams(r)
	if err := s.service.Back(tenantID, sessionID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondCurrent(w, r)
}

// handleCommit runs the Import step. A failed batch is still a 200: the
// outcome is reported inside the result.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	tenantID, sessionID := sessionParams(r)

	result, err := s.service.Import(r.Context(), tenantID, sessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if isHTMX(r) {
		s.respondCurrent(w, r)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	tenantID, sessionID := sessionParams(r)
	if err := s.service.Reset(tenantID, sessionID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondCurrent(w, r)
}

// handleErrorReport downloads the completed import's errors as CSV.
func (s *Server) handleErrorReport(w http.ResponseWriter, r *http.Request) {
	tenantID, sessionID := sessionParams(r)

	result, err := s.service.Result(tenantID, sessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="import-errors-%s.csv"`, sessionID))
	if err := core.WriteErrorReport(w, result); err != nil {
		logging.FromContext(r.Context()).Error("write error report", "error", err)
	}
}
