package cache

import (
	"context"
	"testing"
	"time"
)

type payload struct {
	Score  int    `json:"score"`
	Status string `json:"status"`
}

func TestMemoryCacheTypedRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := payload{Score: 46, Status: "neutral"}
	if err := mc.Set(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	if err := mc.Get(ctx, "k", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var out payload
	if err := mc.Get(context.Background(), "absent", &out); err != ErrCacheMiss {
		t.Fatalf("err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	mc := NewMemoryCache(WithMemoryClock(func() time.Time { return now }))
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var s string
	if err := mc.Get(ctx, "k", &s); err != nil || s != "v" {
		t.Fatalf("get before expiry: %v %q", err, s)
	}

	now = now.Add(2 * time.Minute)
	if err := mc.Get(ctx, "k", &s); err != ErrCacheMiss {
		t.Fatalf("err = %v, want ErrCacheMiss after expiry", err)
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	mc := NewMemoryCache(WithMemoryMaxSize(2), WithMemoryClock(func() time.Time { return now }))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", "1", time.Hour)
	now = now.Add(time.Second)
	_ = mc.Set(ctx, "b", "2", time.Hour)
	now = now.Add(time.Second)
	_ = mc.Set(ctx, "c", "3", time.Hour)

	var s string
	if err := mc.Get(ctx, "a", &s); err != ErrCacheMiss {
		t.Fatalf("oldest key should be evicted, err = %v", err)
	}
	if err := mc.Get(ctx, "c", &s); err != nil || s != "3" {
		t.Fatalf("newest key lost: %v %q", err, s)
	}
}
