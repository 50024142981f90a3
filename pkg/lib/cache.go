// Package lib holds the page cache: an in-process LRU with an optional
// shared Redis tier behind it.
package lib

import (
	"log"
	"time"

	"github.com/bluele/gcache"
)

const (
	DefaultCacheSize = 2000
	DefaultCacheTTL  = 5 * time.Minute

	redisPrefix = "vidembed:page:"
)

// PageCache stores rendered documents keyed by request path. Pages are a
// pure function of the path and the startup config, so entries never need
// invalidation beyond their TTL.
type PageCache struct {
	local gcache.Cache
	redis *RedisPool
	ttl   time.Duration

	// Namespace scopes the Redis keys, so instances configured with
	// different providers never share entries.
	Namespace string
}

// NewPageCache builds the cache. redis may be nil.
func NewPageCache(size int, ttl time.Duration, redis *RedisPool) *PageCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &PageCache{
		local: gcache.New(size).LRU().Expiration(ttl).Build(),
		redis: redis,
		ttl:   ttl,
	}
}

func (p *PageCache) Get(key string) ([]byte, bool) {
	if v, err := p.local.Get(key); err == nil {
		return v.([]byte), true
	}
	if p.redis == nil {
		return nil, false
	}
	b, ok, err := p.redis.Get(p.redisKey(key))
	if err != nil {
		log.Println("redis", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	p.local.Set(key, b)
	return b, true
}

func (p *PageCache) Set(key string, b []byte) {
	p.local.Set(key, b)
	if p.redis == nil {
		return
	}
	if err := p.redis.SetWithTTL(p.redisKey(key), b, p.ttl); err != nil {
		log.Println("redis", err)
	}
}

func (p *PageCache) redisKey(key string) string {
	if p.Namespace == "" {
		return redisPrefix + key
	}
	return redisPrefix + p.Namespace + ":" + key
}

func (p *PageCache) Len() int {
	return p.local.Len(true)
}

func (p *PageCache) HitRate() float64 {
	return p.local.HitRate()
}

func (p *PageCache) LookupCount() uint64 {
	return p.local.LookupCount()
}

// Report logs cache stats every interval until done is closed.
func (p *PageCache) Report(interval time.Duration, done <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			log.Printf("LEN: %d; HIT: %.2f; COUNT: %d", p.Len(), p.HitRate()*100, p.LookupCount())
		}
	}
}
