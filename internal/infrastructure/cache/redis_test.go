package cache

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"worklinkph/internal/config"
)

func TestRedis_BypassWhenUnavailable(t *testing.T) {
	ctx := context.Background()
	r := NewRedisWithClient(nil, 0, log.New(io.Discard, "", 0))

	if r.Available() {
		t.Fatalf("expected unavailable cache")
	}
	if err := r.SetJSON(ctx, "jobs:list:x", []int{1}, time.Minute); err != nil {
		t.Fatalf("set must be a no-op, got %v", err)
	}
	var out []int
	hit, err := r.GetJSON(ctx, "jobs:list:x", &out)
	if err != nil || hit {
		t.Fatalf("get must miss silently: hit=%v err=%v", hit, err)
	}
	if err := r.DeleteByPattern(ctx, "jobs:list:*"); err != nil {
		t.Fatalf("delete by pattern: %v", err)
	}
	if _, _, err := r.IncrWindow(ctx, "rl:1.2.3.4", time.Minute); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := r.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from ping, got %v", err)
	}
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	if r.Available() {
		t.Fatalf("nil cache reports available")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewRedis_UnreachableServer(t *testing.T) {
	r := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: "1", TTL: time.Minute}, log.New(io.Discard, "", 0))
	if r.Available() {
		t.Fatalf("expected bypass mode for an unreachable server")
	}
}
