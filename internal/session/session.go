// 包 session：服务端登录会话；Cookie 中只保存会话 id，用户信息保存在 Redis 或进程内
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lotes-map/internal/logger"
)

const (
	CookieName = "lotes_session"
	keyPrefix  = "session:"
)

// User：会话中保存的身份
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Store：会话存储
// 约束：Get 对不存在或已过期的会话返回 (nil, nil)
type Store interface {
	Create(ctx context.Context, u User) (string, error)
	Get(ctx context.Context, id string) (*User, error)
	Delete(ctx context.Context, id string) error
}

func newID() string { return uuid.NewString() }

// RedisStore：键 session:<uuid>，值为 JSON，带过期时间
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, u User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	id := newID()
	if err := s.rdb.Set(ctx, keyPrefix+id, b, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, nil
	}
	v, err := s.rdb.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		logger.L().Warn("session_decode_error", "err", err)
		return nil, nil
	}
	return &u, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}

type entry struct {
	user    User
	expires time.Time
}

// MemoryStore：进程内会话，过期项在读取时清理
type MemoryStore struct {
	mu  sync.Mutex
	m   map[string]entry
	ttl time.Duration
	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{m: map[string]entry{}, ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, u User) (string, error) {
	id := newID()
	s.mu.Lock()
	s.m[id] = entry{user: u, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expires) {
		delete(s.m, id)
		return nil, nil
	}
	u := e.user
	return &u, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
	return nil
}
