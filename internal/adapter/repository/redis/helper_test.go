package redis

import (
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	infraredis "github.com/iho/glcore/internal/infrastructure/redis"
)

// newTestRedisClient connects through the production constructor to an
// in-process server that is torn down with the test.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := infraredis.NewClient(t.Context(), infraredis.Config{URL: fmt.Sprintf("redis://%s", mr.Addr())})
	if err != nil {
		t.Fatalf("failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}
