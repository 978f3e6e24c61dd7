package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker is the single-process seed lock used when Redis is not configured.
type MemoryLocker struct {
	mu      sync.Mutex
	owner   string
	expires time.Time
	now     func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{now: time.Now}
}

func (l *MemoryLocker) AcquireSeedLock(_ context.Context, owner string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.owner != "" && now.Before(l.expires) {
		return false, nil
	}
	l.owner = owner
	l.expires = now.Add(ttl)
	return true, nil
}

func (l *MemoryLocker) ReleaseSeedLock(_ context.Context, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.owner == owner {
		l.owner = ""
		l.expires = time.Time{}
	}
	return nil
}
