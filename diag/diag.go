// Package diag implements the per-invocation diagnostic log handed to the
// extraction engine as its logger capability.
//
// Unlike the global log package, which persists to disk, a diag.Log is an
// in-memory append-only sequence of leveled lines. It lives for a single
// resolution attempt and is only ever read back as a bounded tail.
package diag

import (
	"fmt"
	"strings"
	"sync"
)

// Log collects leveled diagnostic lines emitted during one engine invocation.
// The zero value is ready to use. Safe for concurrent appends.
type Log struct {
	mu    sync.Mutex
	lines []string
}

// New returns an empty diagnostic log.
func New() *Log {
	return &Log{}
}

func (l *Log) add(level, message string) {
	text := strings.TrimSpace(message)
	if text == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("%s: %s", level, text))
}

// Debug records a debug-level line.
func (l *Log) Debug(message string) { l.add("debug", message) }

// Info records an info-level line.
func (l *Log) Info(message string) { l.add("info", message) }

// Warning records a warning-level line.
func (l *Log) Warning(message string) { l.add("warning", message) }

// Error records an error-level line.
func (l *Log) Error(message string) { l.add("error", message) }

// Warningf records a formatted warning-level line.
func (l *Log) Warningf(format string, args ...any) {
	l.add("warning", fmt.Sprintf(format, args...))
}

// Lines returns a copy of every recorded line in order.
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Tail returns at most n of the most recent lines, oldest first.
func (l *Log) Tail(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || len(l.lines) == 0 {
		return []string{}
	}
	if n > len(l.lines) {
		n = len(l.lines)
	}
	out := make([]string, n)
	copy(out, l.lines[len(l.lines)-n:])
	return out
}

// TailJoined returns the Tail(n) lines joined with " | " for inline error detail.
func (l *Log) TailJoined(n int) string {
	return strings.Join(l.Tail(n), " | ")
}
