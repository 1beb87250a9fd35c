package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/kaedeh1ra/QR-Detector/internal/logger"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// NewRouter wires the scan endpoints.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.requestLogger)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/scan", h.Scan).Methods(http.MethodPost)
	r.HandleFunc("/scan/status", h.Status).Methods(http.MethodGet)
	r.HandleFunc("/scan/last", h.Last).Methods(http.MethodGet)
	r.HandleFunc("/scan/last", h.ResetLast).Methods(http.MethodDelete)
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestLogger assigns a request ID, attaches a tagged logger to the request context and
// logs the outcome.
func (h *Handlers) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		reqLog := h.logger.With().Str("request_id", id).Logger()
		r = r.WithContext(logger.WithRequestID(reqLog.WithContext(r.Context()), id))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		reqLog.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func requestLog(r *http.Request) *zerolog.Logger {
	return zerolog.Ctx(r.Context())
}
