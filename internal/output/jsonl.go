package output

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// JSONLWriter streams records as they are produced. It is safe for concurrent use.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
	mu  sync.Mutex
}

// NewJSONLWriter wraps an io.Writer with buffering.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{w: bw, enc: enc}
}

// Write writes a single record as a JSON line.
func (j *JSONLWriter) Write(rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(rec)
}

// Flush flushes the underlying buffer.
func (j *JSONLWriter) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.w.Flush()
}

// Close flushes the buffer.
func (j *JSONLWriter) Close() error {
	return j.Flush()
}
