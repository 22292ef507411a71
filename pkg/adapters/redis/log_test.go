package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/ports"
)

func newTestLog(t *testing.T, opts ...redis.Option) *redis.Log {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return redis.NewFromClient(client, opts...)
}

func TestRedisLog_Contract(t *testing.T) {
	ports.RunFactLogContract(t, newTestLog(t))
}

func TestRedisLog_KeyOption(t *testing.T) {
	ctx := context.Background()
	log := newTestLog(t, redis.WithKey("outline:main"))

	require.NoError(t, log.Append(ctx, `Outline "r" was created`))
	lines, err := log.Lines(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestRedisLog_ReplayIntoEngine(t *testing.T) {
	ctx := context.Background()
	log := newTestLog(t)

	for _, line := range []string{
		`Outline "r" was created`,
		`Item "a" was created inside item "r" at position "0"`,
		`Item "a"'s title was changed to "Persisted"`,
	} {
		require.NoError(t, log.Append(ctx, line))
	}

	eng := arbor.New()
	n, err := eng.ReplayLog(ctx, log)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	a, err := eng.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "Persisted", a.Title)
}
