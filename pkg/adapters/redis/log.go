// Package redis provides a Redis-backed fact log.
//
// The log is a single Redis list: Append is RPUSH, Lines is LRANGE, so the
// total order of facts is exactly the append order. A host that shards
// outlines across keys gets one totally ordered log per prefix.
package redis

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// Log implements ports.FactLog using a Redis list.
type Log struct {
	client *backend.Client
	key    string
}

// Option configures the Log.
type Option func(*Log)

// WithKey sets the Redis key holding the log (default "arbor:facts").
func WithKey(key string) Option {
	return func(l *Log) {
		l.key = key
	}
}

// New creates a Redis fact log with its own client.
func New(address, password string, db int, opts ...Option) *Log {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis fact log from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Log {
	l := &Log{
		client: client,
		key:    "arbor:facts",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append adds a fact line at the end of the log.
func (l *Log) Append(ctx context.Context, line string) error {
	if err := l.client.RPush(ctx, l.key, line).Err(); err != nil {
		return fmt.Errorf("append to redis log: %w", err)
	}
	return nil
}

// Lines returns every line in append order.
func (l *Log) Lines(ctx context.Context) ([]string, error) {
	lines, err := l.client.LRange(ctx, l.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read redis log: %w", err)
	}
	return lines, nil
}

// Clear removes all lines.
func (l *Log) Clear(ctx context.Context) error {
	if err := l.client.Del(ctx, l.key).Err(); err != nil {
		return fmt.Errorf("clear redis log: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (l *Log) Close() error {
	return l.client.Close()
}
