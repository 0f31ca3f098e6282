package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/redis/go-redis/v9"
)

func exercise(t *testing.T, s Store) {
	ctx := context.Background()
	id, err := s.Create(ctx, User{Email: "demo@demo.com", Name: "Lucas"})
	assert.Equal(t, nil, err)
	assert.NotEqual(t, "", id)

	u, err := s.Get(ctx, id)
	assert.Equal(t, nil, err)
	assert.Equal(t, "Lucas", u.Name)

	u, err = s.Get(ctx, "missing")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, u == nil)

	assert.Equal(t, nil, s.Delete(ctx, id))
	u, _ = s.Get(ctx, id)
	assert.Equal(t, true, u == nil)
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	id, _ := s.Create(context.Background(), User{Email: "a@b.c"})
	now = now.Add(59 * time.Second)
	u, _ := s.Get(context.Background(), id)
	assert.Equal(t, "a@b.c", u.Email)
	now = now.Add(time.Second)
	u, _ = s.Get(context.Background(), id)
	assert.Equal(t, true, u == nil)
}

// 需要本地 Redis：LOTES_TEST_REDIS_ADDR=127.0.0.1:6379
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("LOTES_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LOTES_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	exercise(t, NewRedisStore(rdb, time.Minute))
}
