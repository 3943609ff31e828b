package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"qero-match/internal/domain"
)

// MatchCache guarda resultados de matching por poco tiempo para no repetir
// consultas identicas desde el modal del dashboard. Clear invalida todo;
// lo dispara el watcher de cambios en el pool.
type MatchCache interface {
	Get(key string) (domain.MatchResult, bool)
	Set(key string, result domain.MatchResult, ttl time.Duration)
	Clear()
}

// MatchCacheKey arma la llave contacto|rol|metodo.
func MatchCacheKey(contactID, roleName, method string) string {
	return strings.ToLower(contactID) + "|" + strings.ToLower(strings.TrimSpace(roleName)) + "|" + method
}

type memoryMatchCache struct {
	mu    sync.Mutex
	items map[string]memoryCacheItem
}

type memoryCacheItem struct {
	result    domain.MatchResult
	expiresAt time.Time
}

func NewMemoryMatchCache() MatchCache {
	return &memoryMatchCache{items: make(map[string]memoryCacheItem)}
}

func (c *memoryMatchCache) Get(key string) (domain.MatchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return domain.MatchResult{}, false
	}
	if time.Now().UTC().After(item.expiresAt) {
		delete(c.items, key)
		return domain.MatchResult{}, false
	}
	return item.result, true
}

func (c *memoryMatchCache) Set(key string, result domain.MatchResult, ttl time.Duration) {
	if key == "" || ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryCacheItem{result: result, expiresAt: time.Now().UTC().Add(ttl)}
}

func (c *memoryMatchCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]memoryCacheItem)
}

type redisMatchCache struct {
	client *redis.Client
	prefix string
}

// NewRedisMatchCache construye un cache compartido entre instancias.
func NewRedisMatchCache(client *redis.Client) MatchCache {
	if client == nil {
		return nil
	}
	return &redisMatchCache{client: client, prefix: "match:"}
}

func (c *redisMatchCache) Get(key string) (domain.MatchResult, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return domain.MatchResult{}, false
	}
	var result domain.MatchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.MatchResult{}, false
	}
	return result, true
}

func (c *redisMatchCache) Set(key string, result domain.MatchResult, ttl time.Duration) {
	if key == "" || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = c.client.Set(ctx, c.prefix+key, raw, ttl).Err()
}

func (c *redisMatchCache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
}
