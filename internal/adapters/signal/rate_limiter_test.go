package signal

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.Allow("s1") {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}
	if rl.Allow("s1") {
		t.Fatalf("attempt past the limit should be blocked")
	}
	if !rl.Allow("s2") {
		t.Fatalf("limits are per session")
	}
}

func TestRateLimiterForget(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Allow("s1")
	if rl.Allow("s1") {
		t.Fatalf("second attempt should be blocked")
	}
	rl.Forget("s1")
	if !rl.Allow("s1") {
		t.Fatalf("forgotten session starts a fresh window")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !rl.Allow("s1") {
			t.Fatalf("zero limit disables limiting")
		}
	}
}
