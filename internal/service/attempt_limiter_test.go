package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisCounter struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	counts     map[string]int64
	err        error
}

func newMockRedisCounter() *mockRedisCounter {
	return &mockRedisCounter{counts: make(map[string]int64)}
}

func (m *mockRedisCounter) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	m.counts[keys[0]]++
	cmd.SetVal(m.counts[keys[0]])
	return cmd
}

func (m *mockRedisCounter) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	count, ok := m.counts[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(strconv.FormatInt(count, 10))
	return cmd
}

func (m *mockRedisCounter) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.counts[k]; ok {
			delete(m.counts, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestMemoryAttemptLimiter(t *testing.T) {
	l := NewMemoryAttemptLimiter(time.Minute, 2)

	for i := 0; i < 5; i++ {
		if !l.Allow("user@example.com") {
			t.Fatalf("check #%d must not consume attempts", i+1)
		}
	}
	l.Fail("user@example.com")
	if !l.Allow("user@example.com") {
		t.Fatalf("expected one failure to stay under the limit")
	}
	l.Fail(" USER@example.com ")
	if l.Allow("user@example.com") {
		t.Fatalf("expected key denied after two failures")
	}
	if !l.Allow("other@example.com") {
		t.Fatalf("expected other key to be independent")
	}
	if l.Allow("  ") {
		t.Fatalf("expected empty key rejected")
	}

	l.Reset("user@example.com")
	if !l.Allow("user@example.com") {
		t.Fatalf("expected reset to clear failures")
	}
}

func TestMemoryAttemptLimiter_WindowExpires(t *testing.T) {
	l := NewMemoryAttemptLimiter(40*time.Millisecond, 1)
	l.Fail("user@example.com")
	if l.Allow("user@example.com") {
		t.Fatalf("expected attempt denied after failure")
	}
	time.Sleep(60 * time.Millisecond)
	if !l.Allow("user@example.com") {
		t.Fatalf("expected attempt allowed after window")
	}
}

func TestMemoryAttemptLimiter_DropsIdleKeys(t *testing.T) {
	l := NewMemoryAttemptLimiter(20*time.Millisecond, 3).(*memoryAttemptLimiter)
	for i := 0; i < 50; i++ {
		l.Allow("user" + strconv.Itoa(i) + "@example.com")
	}
	if len(l.hits) != 0 {
		t.Fatalf("checks must not create entries, got %d", len(l.hits))
	}

	l.Fail("a@example.com")
	l.Fail("b@example.com")
	time.Sleep(40 * time.Millisecond)
	l.Allow("a@example.com")
	l.Allow("b@example.com")
	if len(l.hits) != 0 {
		t.Fatalf("expected expired keys removed, got %d", len(l.hits))
	}
}

func TestRedisAttemptLimiter(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisAttemptLimiter
		if !l.Allow("user@example.com") {
			t.Fatalf("expected fail-open for nil limiter")
		}
		l.Fail("user@example.com")
		l.Reset("user@example.com")
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisAttemptLimiter{client: newMockRedisCounter(), window: time.Minute, max: 3, prefix: "auth:attempts:"}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("failures counted until max", func(t *testing.T) {
		mock := newMockRedisCounter()
		l := &redisAttemptLimiter{client: mock, window: 2 * time.Minute, max: 2, prefix: "auth:attempts:"}

		if !l.Allow("user@example.com") {
			t.Fatalf("expected allow without failures")
		}
		l.Fail(" User@Example.com ")
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "auth:attempts:user@example.com" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisAttemptFailScript {
			t.Fatalf("expected script to match")
		}
		if !l.Allow("user@example.com") {
			t.Fatalf("expected allow below max")
		}
		l.Fail("user@example.com")
		if l.Allow("user@example.com") {
			t.Fatalf("expected deny at max")
		}
		l.Reset("user@example.com")
		if !l.Allow("user@example.com") {
			t.Fatalf("expected allow after reset")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		mock := newMockRedisCounter()
		mock.err = errors.New("redis down")
		l := &redisAttemptLimiter{client: mock, window: time.Minute, max: 1, prefix: "auth:attempts:"}
		l.Fail("user@example.com")
		if !l.Allow("user@example.com") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}
