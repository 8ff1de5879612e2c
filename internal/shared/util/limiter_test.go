package util

import (
	"context"
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	// 10 tokens per second, burst of 2
	l := NewLimiter(10, 2)

	if !l.Allow(1) {
		t.Error("expected first token to be allowed")
	}
	if !l.Allow(1) {
		t.Error("expected second token to be allowed (burst)")
	}
	if l.Allow(1) {
		t.Error("expected third token to be rejected (burst exhausted)")
	}

	time.Sleep(150 * time.Millisecond)
	if !l.Allow(1) {
		t.Error("expected token to be refilled after wait")
	}
}

func TestLimiterRegistry(t *testing.T) {
	reg := NewLimiterRegistry(100, 10, 100*time.Millisecond)
	defer reg.Close()

	l1 := reg.Get("10.0.0.1")
	l2 := reg.Get("10.0.0.2")

	if l1 == l2 {
		t.Error("expected different limiters for different clients")
	}
	if reg.Get("10.0.0.1") != l1 {
		t.Error("expected same limiter for same client")
	}
	if reg.Len() != 2 {
		t.Errorf("expected 2 limiters, got %d", reg.Len())
	}

	time.Sleep(250 * time.Millisecond)
	if reg.Get("10.0.0.1") == l1 {
		t.Error("expected idle limiter to be replaced")
	}
}

func TestLimiterRegistry_Allow(t *testing.T) {
	reg := NewLimiterRegistry(1, 1, time.Minute)
	defer reg.Close()

	if !reg.Allow("client") {
		t.Fatal("expected first request to pass")
	}
	if reg.Allow("client") {
		t.Fatal("expected second request to be limited")
	}
	if !reg.Allow("other") {
		t.Fatal("expected separate bucket per client")
	}
	reg.Close()
	reg.Close()
}

func TestLimiter_Wait(t *testing.T) {
	l := NewLimiter(100, 1)
	l.Allow(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := l.Wait(ctx, 1); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("Wait returned too early")
	}
}
