package ratelimit

import (
	"testing"
	"time"
)

func TestAllowBurstThenThrottle(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 1) {
			t.Fatalf("burst request %d denied", i)
		}
	}
	if l.Allow("k", 3, 1) {
		t.Fatalf("request beyond capacity allowed")
	}
}

func TestAllowRefills(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	for i := 0; i < 2; i++ {
		l.Allow("k", 2, 1)
	}
	if l.Allow("k", 2, 1) {
		t.Fatalf("empty bucket allowed")
	}

	now = now.Add(1500 * time.Millisecond)
	if !l.Allow("k", 2, 1) {
		t.Fatalf("refilled bucket denied")
	}
	if l.Allow("k", 2, 1) {
		t.Fatalf("only one token should have refilled")
	}
}

func TestAllowKeysIsolated(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	if !l.Allow("a", 1, 1) {
		t.Fatalf("first key denied")
	}
	if l.Allow("a", 1, 1) {
		t.Fatalf("drained key allowed")
	}
	if !l.Allow("b", 1, 1) {
		t.Fatalf("independent key denied")
	}
}
