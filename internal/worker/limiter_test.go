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
	if l2.defaultBurst != 3 {
		t.Errorf("expected default burst 3 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	if limiter.Enabled() {
		t.Fatal("expected zero rate to disable the limiter")
	}

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := limiter.Wait(ctx, "groq"); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Errorf("disabled limiter blocked for %v", time.Since(start))
	}
	if len(limiter.limiters) != 0 {
		t.Errorf("disabled limiter should not allocate buckets")
	}

	var nilLimiter *Limiter
	if err := nilLimiter.Wait(ctx, "groq"); err != nil {
		t.Errorf("nil limiter wait failed: %v", err)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "groq"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different key has its own bucket
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "groq"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "groq"); err == nil {
		t.Error("expected second wait to fail once the deadline cannot be met")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "groq"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(short, "groq"); err == nil {
		t.Error("expected wait to fail with the bucket exhausted")
	}
}

func TestLimiter_KeysIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "groq"); err != nil {
		t.Fatalf("groq wait failed: %v", err)
	}

	// Exhausting groq leaves every other provider with a full bucket
	for _, key := range []string{"openai", "anthropic", "ollama", "gemini"} {
		if err := limiter.Wait(ctx, key); err != nil {
			t.Errorf("%s wait failed: %v", key, err)
		}
	}
	if len(limiter.limiters) != 5 {
		t.Errorf("expected one bucket per key, got %d", len(limiter.limiters))
	}
}
