package scanner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/kaedeh1ra/QR-Detector/internal/logger"
	"github.com/kaedeh1ra/QR-Detector/internal/model"
)

// ErrScanInProgress is returned when a scan is requested while another is running.
var ErrScanInProgress = errors.New("scanner: scan already in progress")

// Analyzer is the pipeline a Session runs.
type Analyzer interface {
	Analyze(ctx context.Context, input string) model.AnalysisResult
}

// Session models one logical scanner: at most one analysis runs at a time and the most
// recent result is retained for display.
type Session struct {
	analyzer Analyzer
	logger   zerolog.Logger
	busy     atomic.Bool

	mu   sync.RWMutex
	last *model.AnalysisResult
}

func New(a Analyzer, logger zerolog.Logger) *Session {
	return &Session{analyzer: a, logger: logger.With().Str("component", "scanner").Logger()}
}

// Scan analyzes text. A concurrent call is rejected with ErrScanInProgress, never queued.
func (s *Session) Scan(ctx context.Context, text string) (model.AnalysisResult, error) {
	if !s.busy.CompareAndSwap(false, true) {
		logger.FromContext(ctx, s.logger).Debug().Msg("scan rejected, another one is running")
		return model.AnalysisResult{}, ErrScanInProgress
	}
	defer s.busy.Store(false)

	res := s.analyzer.Analyze(ctx, text)

	s.mu.Lock()
	s.last = &res
	s.mu.Unlock()
	return res, nil
}

// Busy reports whether a scan is running.
func (s *Session) Busy() bool { return s.busy.Load() }

// Last returns the most recent result, if any.
func (s *Session) Last() (model.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return model.AnalysisResult{}, false
	}
	return *s.last, true
}

// Reset forgets the last result.
func (s *Session) Reset() {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
}
