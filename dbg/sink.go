package dbg

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Sink receives diagnostic lines. *log.Logger satisfies it.
type Sink interface {
	Printf(format string, v ...any)
}

// NewStderrSink returns the default sink, a *log.Logger writing to stderr.
func NewStderrSink() *log.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}

// NewWriterSink writes one line per Printf call to w.
func NewWriterSink(w io.Writer) *log.Logger {
	return log.New(w, "", 0)
}

type discard struct{}

func (discard) Printf(string, ...any) {}

// Discard drops everything
var Discard Sink = discard{}

// Recorder keeps every line in memory. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *Recorder) Printf(format string, v ...any) {
	line := strings.TrimRight(fmt.Sprintf(format, v...), "\n")
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
}

// Lines returns a copy of the recorded lines
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Reset forgets recorded lines
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.lines = nil
	r.mu.Unlock()
}
