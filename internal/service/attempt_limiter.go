package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter cuenta los intentos fallidos de autenticacion por clave.
// Allow no consume cupo; solo Fail lo hace y Reset lo libera tras un acceso correcto.
type AttemptLimiter interface {
	Allow(key string) bool
	Fail(key string)
	Reset(key string)
}

type memoryAttemptLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewMemoryAttemptLimiter crea un limitador de ventana deslizante en memoria.
func NewMemoryAttemptLimiter(window time.Duration, max int) AttemptLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryAttemptLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *memoryAttemptLimiter) Allow(key string) bool {
	key = normalizeEmail(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(key, time.Now().UTC())) < l.max
}

func (l *memoryAttemptLimiter) Fail(key string) {
	key = normalizeEmail(key)
	if key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	l.hits[key] = append(l.prune(key, now), now)
}

func (l *memoryAttemptLimiter) Reset(key string) {
	key = normalizeEmail(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hits, key)
}

// prune descarta los fallos fuera de la ventana y borra las claves vacias.
func (l *memoryAttemptLimiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(l.hits, key)
		return nil
	}
	l.hits[key] = kept
	return kept
}

const redisAttemptFailScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisAttemptLimiter struct {
	client redisCounter
	window time.Duration
	max    int
	prefix string
}

type redisCounter interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NewRedisAttemptLimiter crea un limitador de ventana fija respaldado por Redis.
func NewRedisAttemptLimiter(client *redis.Client, window time.Duration, max int) AttemptLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisAttemptLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "auth:attempts:",
	}
}

// Allow deja pasar el intento si Redis falla.
func (l *redisAttemptLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := normalizeEmail(key)
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	count, err := l.client.Get(ctx, l.prefix+normalizedKey).Int()
	if err != nil {
		return true
	}
	return count < l.max
}

func (l *redisAttemptLimiter) Fail(key string) {
	if l == nil || l.client == nil {
		return
	}
	normalizedKey := normalizeEmail(key)
	if normalizedKey == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	_ = l.client.Eval(ctx, redisAttemptFailScript, []string{l.prefix + normalizedKey}, seconds).Err()
}

func (l *redisAttemptLimiter) Reset(key string) {
	if l == nil || l.client == nil {
		return
	}
	normalizedKey := normalizeEmail(key)
	if normalizedKey == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = l.client.Del(ctx, l.prefix+normalizedKey).Err()
}
