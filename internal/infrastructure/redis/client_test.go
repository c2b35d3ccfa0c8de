package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)

	ctx := context.Background()
	client, err := NewClient(ctx, Config{URL: fmt.Sprintf("redis://%s", s.Addr())})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Set(ctx, "idempotency:k", "v", time.Minute).Err(); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got := s.TTL("idempotency:k"); got != time.Minute {
		t.Fatalf("expected ttl of one minute, got %v", got)
	}
}

func TestNewClientAppliesConfig(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), Config{
		URL:         fmt.Sprintf("redis://%s", s.Addr()),
		PoolSize:    7,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	opts := client.Options()
	if opts.PoolSize != 7 || opts.DialTimeout != 2*time.Second {
		t.Fatalf("config not applied: pool=%d dial=%v", opts.PoolSize, opts.DialTimeout)
	}
}

func TestNewClientURLOverridesConfig(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), Config{
		URL:      fmt.Sprintf("redis://%s?pool_size=3", s.Addr()),
		PoolSize: 10,
	})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if got := client.Options().PoolSize; got != 3 {
		t.Fatalf("expected pool size from URL, got %d", got)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{URL: "://bad-url"}); err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close()

	if _, err := NewClient(context.Background(), Config{URL: url, DialTimeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}
