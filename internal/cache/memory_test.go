package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLocker()
	l.now = func() time.Time { return now }

	ok, err := l.AcquireSeedLock(ctx, "run-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.AcquireSeedLock(ctx, "run-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// only the owner can release
	require.NoError(t, l.ReleaseSeedLock(ctx, "run-2"))
	ok, _ = l.AcquireSeedLock(ctx, "run-2", time.Minute)
	assert.False(t, ok)

	require.NoError(t, l.ReleaseSeedLock(ctx, "run-1"))
	ok, _ = l.AcquireSeedLock(ctx, "run-2", time.Minute)
	assert.True(t, ok)
}

func TestMemoryLocker_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLocker()
	l.now = func() time.Time { return now }

	ok, _ := l.AcquireSeedLock(ctx, "run-1", time.Minute)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err := l.AcquireSeedLock(ctx, "run-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
