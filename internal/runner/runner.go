package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaedeh1ra/QR-Detector/internal/model"
)

// Analyzer is the per-input pipeline the runner drives.
type Analyzer interface {
	Analyze(ctx context.Context, input string) model.AnalysisResult
}

// Config holds settings for the runner.
type Config struct {
	Threads   int
	RateLimit int // analyses started per second, 0 = unlimited
}

// Runner coordinates concurrent analyses.
type Runner struct {
	cfg      Config
	analyzer Analyzer
	logger   zerolog.Logger
}

// New creates a new Runner.
func New(cfg Config, a Analyzer, logger zerolog.Logger) *Runner {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	return &Runner{cfg: cfg, analyzer: a, logger: logger.With().Str("component", "runner").Logger()}
}

// Run analyzes inputs and returns results in input order. Inputs not started before ctx
// is done are left out; the returned slice is truncated to the completed prefix.
func (r *Runner) Run(ctx context.Context, inputs []string) []model.AnalysisResult {
	out := make([]model.AnalysisResult, len(inputs))
	done := make([]bool, len(inputs))

	var rateCh <-chan time.Time
	if r.cfg.RateLimit > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(r.cfg.RateLimit))
		defer ticker.Stop()
		rateCh = ticker.C
	}

	type job struct {
		idx   int
		input string
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobs {
				if rateCh != nil {
					select {
					case <-ctx.Done():
						continue
					case <-rateCh:
					}
				}
				// Each index is written by exactly one worker.
				out[jb.idx] = r.analyzer.Analyze(ctx, jb.input)
				done[jb.idx] = true
			}
		}()
	}

feed:
	for i, in := range inputs {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{idx: i, input: in}:
		}
	}
	close(jobs)
	wg.Wait()

	n := 0
	for n < len(done) && done[n] {
		n++
	}
	if n < len(inputs) {
		r.logger.Warn().Int("completed", n).Int("total", len(inputs)).Msg("run interrupted")
	}
	return out[:n]
}

// LoadInputs reads one scanned payload per line, skipping blank lines.
func LoadInputs(rd io.Reader) ([]string, error) {
	var inputs []string
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			inputs = append(inputs, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}
	return inputs, nil
}

// LoadFile is LoadInputs over a file path.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()
	return LoadInputs(f)
}
