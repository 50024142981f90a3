package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kiyor/vidembed/pkg/lib"
	"github.com/kiyor/vidembed/pkg/route"
)

// DefaultPort is used when neither --listen nor PORT is set.
const DefaultPort = 3000

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Interface string // e.g. 0.0.0.0
	Listen    string // e.g. :3000

	// Provider templates; {id}, {season}, {episode} are substituted
	// percent-encoded.
	MovieEmbed string
	TVEmbed    string

	StaticDir string
	RedisHost string
	CacheSize int
	CacheTTL  time.Duration

	Pretty bool
	Pprof  bool
}

// DefaultConfig returns defaults, overridden by PORT, MOVIE_EMBED, TV_EMBED,
// STATIC_DIR and REDIS_HOST when set.
func DefaultConfig() Config {
	return Config{
		Interface:  "0.0.0.0",
		Listen:     ":" + strconv.Itoa(getEnvAsIntOrDefault("PORT", DefaultPort)),
		MovieEmbed: getEnvOrDefault("MOVIE_EMBED", route.DefaultMovieEmbed),
		TVEmbed:    getEnvOrDefault("TV_EMBED", route.DefaultTVEmbed),
		StaticDir:  getEnvOrDefault("STATIC_DIR", "./public"),
		RedisHost:  os.Getenv("REDIS_HOST"),
		CacheSize:  lib.DefaultCacheSize,
		CacheTTL:   lib.DefaultCacheTTL,
	}
}

// Addr is the listen address, interface + port.
func (c Config) Addr() string {
	listen := c.Listen
	if !strings.HasPrefix(listen, ":") {
		listen = ":" + listen
	}
	return c.Interface + listen
}

// Port returns the numeric port of Listen.
func (c Config) Port() (int, error) {
	p, err := strconv.Atoi(strings.TrimPrefix(c.Listen, ":"))
	if err != nil {
		return 0, fmt.Errorf("listen %q: %w", c.Listen, err)
	}
	return p, nil
}

// Routes builds the route table for the configured providers.
func (c Config) Routes() (*route.Table, error) {
	return route.NewTable(route.Defaults(c.MovieEmbed, c.TVEmbed)...)
}

func (c Config) Validate() error {
	p, err := c.Port()
	if err != nil {
		return err
	}
	if p < 1 || p > 65535 {
		return fmt.Errorf("invalid port: %d", p)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("invalid cache size: %d", c.CacheSize)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("invalid cache ttl: %v", c.CacheTTL)
	}
	if _, err := c.Routes(); err != nil {
		return err
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
