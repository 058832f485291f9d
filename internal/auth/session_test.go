package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockCmdable struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestRedisSessions_Lifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	s := &RedisSessions{store: mock}

	if err := s.Create(ctx, "abc", "u_1", time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if mock.data["forgestore:session:admin:abc"] != "u_1" {
		t.Fatalf("unexpected keys %v", mock.data)
	}
	if mock.ttls["forgestore:session:admin:abc"] != time.Hour {
		t.Fatalf("ttl not applied")
	}

	ok, err := s.Exists(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("exists=%v err=%v", ok, err)
	}

	if err := s.Delete(ctx, "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := s.Exists(ctx, "abc"); ok {
		t.Fatalf("session survived delete")
	}
}

func TestMemSessions_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemSessions()
	s.now = func() time.Time { return now }

	_ = s.Create(ctx, "abc", "u_1", time.Minute)
	if ok, _ := s.Exists(ctx, "abc"); !ok {
		t.Fatalf("fresh session missing")
	}

	now = now.Add(time.Minute)
	if ok, _ := s.Exists(ctx, "abc"); ok {
		t.Fatalf("expired session still live")
	}
}
