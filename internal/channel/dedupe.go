package channel

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDedupeTTL = 24 * time.Hour
	// pendingTTL bounds how long an unfinished first delivery blocks provider retries.
	pendingTTL    = 2 * time.Minute
	pendingMarker = "\x00pending"
	keyPrefix     = "cvbot:msg:"
)

// claimTTL is the lifetime of the in-flight marker. Completed replies keep the full ttl.
func claimTTL(ttl time.Duration) time.Duration {
	if ttl < pendingTTL {
		return ttl
	}
	return pendingTTL
}

// Dedupe remembers provider message ids so a redelivered webhook gets the original reply
// instead of advancing the conversation twice.
type Dedupe interface {
	// Claim reserves messageID. When it was already handled, claimed is false and reply is
	// the stored answer; an empty reply means the first delivery is still in flight.
	Claim(ctx context.Context, messageID string) (reply string, claimed bool, err error)
	Complete(ctx context.Context, messageID, reply string) error
}

type redisAPI interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisDedupe keeps message ids in Redis so every API replica sees them.
type RedisDedupe struct {
	rdb redisAPI
	ttl time.Duration
}

func NewRedisDedupe(rdb *redis.Client, ttl time.Duration) *RedisDedupe {
	return newRedisDedupe(rdb, ttl)
}

func newRedisDedupe(rdb redisAPI, ttl time.Duration) *RedisDedupe {
	if ttl <= 0 {
		ttl = defaultDedupeTTL
	}
	return &RedisDedupe{rdb: rdb, ttl: ttl}
}

func (d *RedisDedupe) Claim(ctx context.Context, messageID string) (string, bool, error) {
	key := keyPrefix + messageID
	ok, err := d.rdb.SetNX(ctx, key, pendingMarker, claimTTL(d.ttl)).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}
	val, err := d.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		// Expired between the two calls.
		return "", true, nil
	}
	if err != nil {
		return "", false, err
	}
	if val == pendingMarker {
		return "", false, nil
	}
	return val, false, nil
}

func (d *RedisDedupe) Complete(ctx context.Context, messageID, reply string) error {
	return d.rdb.Set(ctx, keyPrefix+messageID, reply, d.ttl).Err()
}

// MemoryDedupe is the single-process fallback used when no Redis is configured.
type MemoryDedupe struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	reply   string
	expires time.Time
}

func NewMemoryDedupe(ttl time.Duration) *MemoryDedupe {
	if ttl <= 0 {
		ttl = defaultDedupeTTL
	}
	return &MemoryDedupe{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (d *MemoryDedupe) Claim(_ context.Context, messageID string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	d.sweep(now)
	if e, ok := d.entries[messageID]; ok {
		if e.reply == pendingMarker {
			return "", false, nil
		}
		return e.reply, false, nil
	}
	d.entries[messageID] = memoryEntry{reply: pendingMarker, expires: now.Add(claimTTL(d.ttl))}
	return "", true, nil
}

func (d *MemoryDedupe) Complete(_ context.Context, messageID, reply string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[messageID] = memoryEntry{reply: reply, expires: d.now().Add(d.ttl)}
	return nil
}

func (d *MemoryDedupe) sweep(now time.Time) {
	for id, e := range d.entries {
		if now.After(e.expires) {
			delete(d.entries, id)
		}
	}
}
