package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "forgestore:session:admin:"

// Sessions tracks live admin sign-ins. A signed token is only honoured while
// its session id is present, so logout takes effect before the token expires.
type Sessions interface {
	Create(ctx context.Context, id, userID string, ttl time.Duration) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type MemSessions struct {
	mu   sync.Mutex
	now  func() time.Time
	byID map[string]memSession
}

type memSession struct {
	userID  string
	expires time.Time
}

func NewMemSessions() *MemSessions {
	return &MemSessions{now: time.Now, byID: make(map[string]memSession)}
}

func (s *MemSessions) Create(_ context.Context, id, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[id] = memSession{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemSessions) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	if !s.now().Before(sess.expires) {
		delete(s.byID, id)
		return false, nil
	}
	return true, nil
}

func (s *MemSessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Exists(context.Context, ...string) *redis.IntCmd
	Del(context.Context, ...string) *redis.IntCmd
}

type RedisSessions struct {
	store cmdable
}

func NewRedisSessions(c *redis.Client) *RedisSessions {
	return &RedisSessions{store: c}
}

// OpenRedis builds a client from a URL or a host:port and verifies it.
func OpenRedis(ctx context.Context, url, addr string) (*redis.Client, error) {
	var opts *redis.Options
	switch {
	case url != "":
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case addr != "":
		opts = &redis.Options{Addr: addr}
	default:
		return nil, errors.New("redis url or address is required")
	}

	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (s *RedisSessions) Create(ctx context.Context, id, userID string, ttl time.Duration) error {
	return s.store.Set(ctx, sessionKey(id), userID, ttl).Err()
}

func (s *RedisSessions) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.store.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisSessions) Delete(ctx context.Context, id string) error {
	return s.store.Del(ctx, sessionKey(id)).Err()
}

func (s *RedisSessions) Ping(ctx context.Context) error {
	return s.store.Ping(ctx).Err()
}
