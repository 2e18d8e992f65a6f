package utils

import (
	"testing"
	"time"
)

func TestNextEligibleTime(t *testing.T) {
	if got := NextEligibleTime(nil, time.Hour); !got.IsZero() {
		t.Fatalf("no prior success should be immediately eligible, got %v", got)
	}

	last := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	got := NextEligibleTime(&last, time.Hour)
	want := last.Add(time.Hour)
	if !got.Equal(want) {
		t.Fatalf("NextEligibleTime = %v, want %v", got, want)
	}
}

func TestCooldownRemaining(t *testing.T) {
	last := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	now := last.Add(30 * time.Minute)
	if got := CooldownRemaining(&last, time.Hour, now); got != 30*time.Minute {
		t.Fatalf("mid-cooldown remaining = %v", got)
	}

	now = last.Add(2 * time.Hour)
	if got := CooldownRemaining(&last, time.Hour, now); got > 0 {
		t.Fatalf("expired cooldown remaining should be non-positive, got %v", got)
	}

	if got := CooldownRemaining(nil, time.Hour, now); got > 0 {
		t.Fatalf("no prior success should be non-positive, got %v", got)
	}
}

func TestRetryBackoff(t *testing.T) {
	if got := RetryBackoff(0, 5*time.Second); got != 0 {
		t.Fatalf("attempt 0 backoff = %v", got)
	}
	if got := RetryBackoff(1, 5*time.Second); got != 5*time.Second {
		t.Fatalf("attempt 1 backoff = %v", got)
	}
	if got := RetryBackoff(3, 5*time.Second); got != 5*time.Second {
		t.Fatalf("fixed backoff should not grow, got %v", got)
	}
}
