package cache

import (
	"context"
	"time"

	"github.com/Domenick1991/flightseed/config"
	"github.com/redis/go-redis/v9"
)

const seedLockKey = "lock:seed"

// releaseScript deletes the lock only while it is still held by the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(cfg config.RedisConfig) *RedisLocker {
	return &RedisLocker{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

func (l *RedisLocker) AcquireSeedLock(ctx context.Context, owner string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, seedLockKey, owner, ttl).Result()
}

func (l *RedisLocker) ReleaseSeedLock(ctx context.Context, owner string) error {
	return releaseScript.Run(ctx, l.client, []string{seedLockKey}, owner).Err()
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}
