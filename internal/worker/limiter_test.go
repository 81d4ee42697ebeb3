package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A different backend has its own bucket
	if err := limiter.Wait(ctx, "anthropic"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 10 rps, burst 1: the second request on the same backend must wait
	limiter := NewLimiter(10, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("second wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected rate limiting delay, got %v", elapsed)
	}
}

func TestLimiter_BackendsIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	// Exhaust one backend's bucket
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatal(err)
	}

	// Another backend is unaffected
	start := time.Now()
	if err := limiter.Wait(ctx, "ollama"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("independent backend was throttled: %v", elapsed)
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("openai") {
		t.Error("expected first request to be allowed")
	}
	if limiter.Allow("openai") {
		t.Error("expected second immediate request to be denied")
	}
}

func TestLimiter_SetBackendRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetBackendRate("ollama", 1000, 100)

	// The custom rate permits a burst the default would reject
	for i := 0; i < 10; i++ {
		if !limiter.Allow("ollama") {
			t.Fatalf("request %d denied under custom rate", i)
		}
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.1, 1) // one token per 10s
	ctx := context.Background()

	if err := limiter.Wait(ctx, "slow"); err != nil {
		t.Fatal(err)
	}

	cancelCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(cancelCtx, "slow"); err == nil {
		t.Error("expected context cancellation error")
	}
}
