package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaedeh1ra/QR-Detector/internal/model"
)

type echoAnalyzer struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (e *echoAnalyzer) Analyze(_ context.Context, input string) model.AnalysisResult {
	n := e.inFlight.Add(1)
	for {
		p := e.peak.Load()
		if n <= p || e.peak.CompareAndSwap(p, n) {
			break
		}
	}
	// Later inputs finish first to exercise ordering.
	time.Sleep(time.Duration(10-len(input)%10) * time.Millisecond)
	e.inFlight.Add(-1)
	return model.AnalysisResult{Content: input, RiskLevel: model.RiskInfo}
}

func TestRunPreservesOrder(t *testing.T) {
	inputs := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff", "ggggggg"}
	a := &echoAnalyzer{}

	out := New(Config{Threads: 3}, a, zerolog.Nop()).Run(context.Background(), inputs)

	require.Len(t, out, len(inputs))
	for i, res := range out {
		assert.Equal(t, inputs[i], res.Content)
	}
	assert.LessOrEqual(t, a.peak.Load(), int32(3))
}

func TestRunRateLimit(t *testing.T) {
	start := time.Now()
	out := New(Config{Threads: 4, RateLimit: 20}, &echoAnalyzer{}, zerolog.Nop()).
		Run(context.Background(), []string{"1", "2", "3", "4", "5"})

	require.Len(t, out, 5)
	// Five ticks at 50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := New(Config{Threads: 2, RateLimit: 1}, &echoAnalyzer{}, zerolog.Nop()).
		Run(ctx, []string{"1", "2", "3"})
	assert.Len(t, out, 0)
}

func TestLoadInputs(t *testing.T) {
	inputs, err := LoadInputs(strings.NewReader("https://a.example\n\n  plain text  \r\nexample.com\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "plain text", "example.com"}, inputs)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o600))

	inputs, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, inputs)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
