package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/iho/glcore/internal/adapter/repository/memory"
)

func TestIdempotencyStore(t *testing.T) {
	store := memory.NewIdempotencyStore()
	ctx := context.Background()

	exists, _, err := store.CheckAndSet(ctx, "k", nil, time.Minute)
	if err != nil || exists {
		t.Fatalf("expected first claim to win, got exists=%v err=%v", exists, err)
	}

	exists, val, _ := store.CheckAndSet(ctx, "k", nil, time.Minute)
	if !exists || string(val) != "processing" {
		t.Fatalf("expected in-flight marker, got exists=%v val=%s", exists, val)
	}

	if err := store.Update(ctx, "k", []byte(`{"id":"je1"}`), time.Minute); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, val, _ = store.CheckAndSet(ctx, "k", nil, time.Minute)
	if string(val) != `{"id":"je1"}` {
		t.Fatalf("expected stored response, got %s", val)
	}

	if err := store.Release(ctx, "k"); err != nil {
		t.Fatalf("release: %v", err)
	}

	exists, _, _ = store.CheckAndSet(ctx, "k", nil, time.Minute)
	if exists {
		t.Fatal("expected released key to be claimable again")
	}
}
