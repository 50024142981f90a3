package lib

import (
	"os"
	"testing"
	"time"
)

func TestPageCache(t *testing.T) {
	c := NewPageCache(2, time.Minute, nil)

	if _, ok := c.Get("/movie/550"); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.Set("/movie/550", []byte("a"))
	b, ok := c.Get("/movie/550")
	if !ok || string(b) != "a" {
		t.Fatalf("Get = %q, %v", b, ok)
	}

	c.Set("/tv/1/1/1", []byte("b"))
	c.Set("/", []byte("c"))
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if c.LookupCount() != 2 {
		t.Errorf("LookupCount = %d, want 2", c.LookupCount())
	}
	if r := c.HitRate(); r != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", r)
	}
}

func TestPageCache_Expiration(t *testing.T) {
	c := NewPageCache(10, 20*time.Millisecond, nil)
	c.Set("/", []byte("home"))
	time.Sleep(50 * time.Millisecond)
	if _, ok := c.Get("/"); ok {
		t.Error("entry outlived its ttl")
	}
}

func TestPageCache_Defaults(t *testing.T) {
	c := NewPageCache(0, 0, nil)
	if c.ttl != DefaultCacheTTL {
		t.Errorf("ttl = %v", c.ttl)
	}
}

// TestPageCache_Redis needs a live server: REDIS_HOST=localhost:6379 go test ./pkg/lib
func TestPageCache_Redis(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set")
	}
	pool := NewRedisPool(host)
	defer pool.Close()
	if err := pool.Ping(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	key := "/test/" + time.Now().Format(time.RFC3339Nano)
	writer := NewPageCache(10, time.Minute, pool)
	writer.Set(key, []byte("shared"))

	reader := NewPageCache(10, time.Minute, pool)
	b, ok := reader.Get(key)
	if !ok || string(b) != "shared" {
		t.Fatalf("second instance Get = %q, %v", b, ok)
	}
	if reader.Len() != 1 {
		t.Errorf("redis hit was not promoted to the local tier")
	}
}

func TestHash(t *testing.T) {
	// md5("hello") = 5d41402abc4b2a76b9719d911017c592
	if h := Hash("hello"); h != "5d41402abc4b" {
		t.Errorf("Hash = %q", h)
	}
}

func TestPageCache_RedisKey(t *testing.T) {
	c := NewPageCache(1, time.Minute, nil)
	if k := c.redisKey("/movie/550"); k != "vidembed:page:/movie/550" {
		t.Errorf("redisKey = %q", k)
	}
	c.Namespace = Hash("a")
	if k := c.redisKey("/movie/550"); k != "vidembed:page:"+Hash("a")+":/movie/550" {
		t.Errorf("redisKey = %q", k)
	}
}

func TestNewRedisPool_DefaultPort(t *testing.T) {
	for host, want := range map[string]string{
		"127.0.0.1":      "127.0.0.1:6379",
		"127.0.0.1:6380": "127.0.0.1:6380",
	} {
		p := NewRedisPool(host)
		if p.Host != want {
			t.Errorf("NewRedisPool(%q).Host = %q, want %q", host, p.Host, want)
		}
		p.Close()
	}
}
