package memory

import (
	"context"
	"sync"
)

// Log implements ports.FactLog with an in-memory slice.
// Safe for concurrent use.
type Log struct {
	mu    sync.Mutex
	lines []string
}

// NewLog creates an empty in-memory fact log.
func NewLog() *Log {
	return &Log{}
}

// Append adds a fact line at the end of the log.
func (l *Log) Append(ctx context.Context, line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	return nil
}

// Lines returns every line in append order.
func (l *Log) Lines(ctx context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out, nil
}

// Clear removes all lines.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
	return nil
}
