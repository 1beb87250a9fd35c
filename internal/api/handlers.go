package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kaedeh1ra/QR-Detector/internal/scanner"
)

// maxRequestBytes bounds a scan request body.
const maxRequestBytes = 64 << 10

// ScanRequest is the body of POST /scan.
type ScanRequest struct {
	Content *string `json:"content"`
}

// StatusResponse is the body of GET /scan/status.
type StatusResponse struct {
	Busy    bool `json:"busy"`
	HasLast bool `json:"has_last"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handlers serves the scanner session over HTTP.
type Handlers struct {
	session *scanner.Session
	logger  zerolog.Logger
}

func NewHandlers(s *scanner.Session, logger zerolog.Logger) *Handlers {
	return &Handlers{session: s, logger: logger.With().Str("component", "api").Logger()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Scan analyzes the posted content.
func (h *Handlers) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		requestLog(r).Debug().Err(err).Msg("malformed scan request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if req.Content == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content is required"})
		return
	}

	// The result becomes the session's last scan, so a client hanging up must not
	// truncate it.
	res, err := h.session.Scan(context.WithoutCancel(r.Context()), *req.Content)
	if errors.Is(err, scanner.ErrScanInProgress) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		requestLog(r).Error().Err(err).Msg("scan failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "scan failed"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Status reports whether a scan is running and whether a result is held.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	_, ok := h.session.Last()
	writeJSON(w, http.StatusOK, StatusResponse{Busy: h.session.Busy(), HasLast: ok})
}

// Last returns the most recent result.
func (h *Handlers) Last(w http.ResponseWriter, r *http.Request) {
	res, ok := h.session.Last()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no scan yet"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ResetLast clears the most recent result.
func (h *Handlers) ResetLast(w http.ResponseWriter, r *http.Request) {
	h.session.Reset()
	w.WriteHeader(http.StatusNoContent)
}
