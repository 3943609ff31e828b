package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// AIRateLimiter acota cuantos requests del metodo AI se permiten por llave
// dentro de una ventana. Un limiter nil permite todo.
type AIRateLimiter interface {
	Allow(key string) bool
}

const redisAIAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisAIRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

func NewRedisAIRateLimiter(client *redis.Client, window time.Duration, max int) AIRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisAIRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "airl:",
	}
}

func (l *redisAIRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	redisKey := l.prefix + normalizedKey
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisAIAllowScript, []string{redisKey}, seconds).Int()
	if err != nil {
		// Fallo de redis no debe tumbar el metodo AI entero.
		return true
	}
	return count <= l.max
}
