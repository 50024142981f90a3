package lib

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
)

type RedisPool struct {
	Pool *redis.Pool
	Host string
}

// NewRedisPool dials lazily. The initial PING is only logged so the server
// still starts when Redis is down.
func NewRedisPool(host string) *RedisPool {
	if !strings.Contains(host, ":") {
		host += ":6379"
	}
	r := &RedisPool{
		Host: host,
		Pool: &redis.Pool{
			MaxIdle:     6,
			IdleTimeout: 240 * time.Second,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", host,
					redis.DialConnectTimeout(2*time.Second),
					redis.DialReadTimeout(time.Second),
					redis.DialWriteTimeout(time.Second),
				)
			},
			TestOnBorrow: func(c redis.Conn, t time.Time) error {
				if time.Since(t) < time.Minute {
					return nil
				}
				_, err := c.Do("PING")
				return err
			},
		},
	}
	if err := r.Ping(); err != nil {
		log.Printf("redis PING %s: %v", host, err)
	} else {
		log.Printf("redis connected %s", host)
	}
	return r
}

func (r *RedisPool) Ping() error {
	conn := r.Pool.Get()
	defer conn.Close()
	_, err := conn.Do("PING")
	return err
}

// Get returns the value of key. A missing key is (nil, false, nil).
func (r *RedisPool) Get(key string) ([]byte, bool, error) {
	conn := r.Pool.Get()
	defer conn.Close()
	b, err := redis.Bytes(conn.Do("GET", key))
	if errors.Is(err, redis.ErrNil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisPool) SetWithTTL(key string, value []byte, ttl time.Duration) error {
	conn := r.Pool.Get()
	defer conn.Close()
	sec := int64(ttl / time.Second)
	if sec < 1 {
		sec = 1
	}
	_, err := conn.Do("SET", key, value, "EX", sec)
	return err
}

func (r *RedisPool) Close() error {
	return r.Pool.Close()
}
