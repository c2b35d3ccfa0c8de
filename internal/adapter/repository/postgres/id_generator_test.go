package postgres

import (
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestULIDGeneratorMonotonicWithinMillisecond(t *testing.T) {
	gen := NewULIDGenerator()
	fixed := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	gen.now = func() time.Time { return fixed }

	prev := gen.Generate()
	for range 100 {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("expected %s > %s", next, prev)
		}
		prev = next
	}

	id, err := ulid.Parse(prev)
	if err != nil {
		t.Fatalf("generated id is not a ULID: %v", err)
	}
	if got := ulid.Time(id.Time()); !got.Equal(fixed) {
		t.Fatalf("expected timestamp %v, got %v", fixed, got)
	}
}

func TestULIDGeneratorConcurrentUnique(t *testing.T) {
	gen := NewULIDGenerator()

	const workers, perWorker = 8, 200
	ids := make(chan string, workers*perWorker)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for range perWorker {
				ids <- gen.Generate()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, workers*perWorker)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}
