package channel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisDedupeLifecycle(t *testing.T) {
	fake := newFakeRedis()
	d := newRedisDedupe(fake, time.Hour)
	ctx := context.Background()

	_, claimed, err := d.Claim(ctx, "SM1")
	if err != nil || !claimed {
		t.Fatalf("first claim: claimed=%v err=%v", claimed, err)
	}
	reply, claimed, err := d.Claim(ctx, "SM1")
	if err != nil || claimed || reply != "" {
		t.Fatalf("in-flight claim: reply=%q claimed=%v err=%v", reply, claimed, err)
	}
	if err := d.Complete(ctx, "SM1", "done!"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	reply, claimed, err = d.Claim(ctx, "SM1")
	if err != nil || claimed || reply != "done!" {
		t.Fatalf("replayed claim: reply=%q claimed=%v err=%v", reply, claimed, err)
	}
	if _, ok := fake.values[keyPrefix+"SM1"]; !ok {
		t.Fatalf("expected prefixed key")
	}
}

func TestRedisDedupeSurfacesErrors(t *testing.T) {
	boom := errors.New("connection refused")
	fake := newFakeRedis()
	fake.err = boom
	d := newRedisDedupe(fake, 0)
	if _, _, err := d.Claim(context.Background(), "SM1"); !errors.Is(err, boom) {
		t.Fatalf("expected error, got %v", err)
	}
}

func TestMemoryDedupeExpires(t *testing.T) {
	d := NewMemoryDedupe(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	if _, claimed, _ := d.Claim(ctx, "SM1"); !claimed {
		t.Fatalf("expected claim")
	}
	_ = d.Complete(ctx, "SM1", "hi")
	if reply, claimed, _ := d.Claim(ctx, "SM1"); claimed || reply != "hi" {
		t.Fatalf("expected stored reply, got %q claimed=%v", reply, claimed)
	}

	now = now.Add(2 * time.Minute)
	if _, claimed, _ := d.Claim(ctx, "SM1"); !claimed {
		t.Fatalf("expected expired entry to be claimable")
	}
}

func TestRedisDedupePendingMarkerIsShortLived(t *testing.T) {
	fake := newFakeRedis()
	d := newRedisDedupe(fake, 24*time.Hour)
	ctx := context.Background()

	if _, claimed, _ := d.Claim(ctx, "SM1"); !claimed {
		t.Fatalf("expected claim")
	}
	if got := fake.ttls[keyPrefix+"SM1"]; got != pendingTTL {
		t.Fatalf("expected pending ttl %s, got %s", pendingTTL, got)
	}
	_ = d.Complete(ctx, "SM1", "hi")
	if got := fake.ttls[keyPrefix+"SM1"]; got != 24*time.Hour {
		t.Fatalf("expected completed ttl 24h, got %s", got)
	}
}

func TestMemoryDedupeAbandonedClaimExpires(t *testing.T) {
	d := NewMemoryDedupe(24 * time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	if _, claimed, _ := d.Claim(ctx, "SM1"); !claimed {
		t.Fatalf("expected claim")
	}
	if reply, claimed, _ := d.Claim(ctx, "SM1"); claimed || reply != "" {
		t.Fatalf("expected in-flight, got %q claimed=%v", reply, claimed)
	}

	// The first delivery never completed; a retry after the pending window is processed.
	now = now.Add(pendingTTL + time.Second)
	if _, claimed, _ := d.Claim(ctx, "SM1"); !claimed {
		t.Fatalf("expected abandoned claim to be reclaimable")
	}
	_ = d.Complete(ctx, "SM1", "hi")

	now = now.Add(12 * time.Hour)
	if reply, claimed, _ := d.Claim(ctx, "SM1"); claimed || reply != "hi" {
		t.Fatalf("expected stored reply after 12h, got %q claimed=%v", reply, claimed)
	}
}
