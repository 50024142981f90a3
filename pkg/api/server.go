// Package api is the fiber serving layer: security headers, access log,
// player and home pages, home-form redirects, embedded assets, static files,
// health and metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kiyor/vidembed/pkg/core"
	"github.com/kiyor/vidembed/pkg/lib"
	"github.com/kiyor/vidembed/pkg/render"
	"github.com/kiyor/vidembed/pkg/route"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg      core.Config
	app      *fiber.App
	routes   *route.Table
	renderer *render.Renderer
	cache    *lib.PageCache
	redis    *lib.RedisPool
	metrics  *Metrics
	csp      string
}

// New wires everything from cfg. cfg is copied and not read again after
// New returns.
func New(cfg core.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	routes, err := cfg.Routes()
	if err != nil {
		return nil, err
	}
	renderer, err := render.New(render.Options{
		MovieAction: "/go/movie",
		TVAction:    "/go/tv",
		Pretty:      cfg.Pretty,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		routes:   routes,
		renderer: renderer,
		metrics:  NewMetrics(),
		csp:      ContentSecurityPolicy(routes.Origins()),
	}
	if cfg.RedisHost != "" {
		s.redis = lib.NewRedisPool(cfg.RedisHost)
	}
	s.cache = lib.NewPageCache(cfg.CacheSize, cfg.CacheTTL, s.redis)
	s.cache.Namespace = lib.Hash(fmt.Sprintf("%s\n%s\n%t", cfg.MovieEmbed, cfg.TVEmbed, cfg.Pretty))

	s.app = fiber.New(fiber.Config{
		StrictRouting:         true,
		CaseSensitive:         true,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.setupRoutes()
	return s, nil
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupRoutes() {
	app := s.app
	app.Use(recover.New())
	app.Use(SecurityHeaders(s.csp))
	app.Use(core.NewLogHandler().Handler())
	app.Use(etag.New())

	app.Get("/assets/player.css", serveAsset("text/css; charset=utf-8", playerCSS))
	app.Get("/assets/player.js", serveAsset("application/javascript; charset=utf-8", playerJS))
	app.Get("/health", s.health)
	app.Get("/metrics", s.metrics.Handler())
	if s.cfg.Pprof {
		app.Get("/debug/pprof/*", adaptor.HTTPHandler(http.DefaultServeMux))
	}

	app.Get("/go/movie", s.goMovie)
	app.Get("/go/tv", s.goTV)

	// Declared routes first, then static files, then 404.
	app.Get("/*", s.page)
	if s.cfg.StaticDir != "" {
		if st, err := os.Stat(s.cfg.StaticDir); err == nil && st.IsDir() {
			app.Static("/", s.cfg.StaticDir)
		} else {
			log.Printf("static dir %s not served: %v", s.cfg.StaticDir, err)
		}
	}
	app.Use(s.notFound)
}

// Start listens until ctx is done or SIGINT/SIGTERM arrives, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go s.cache.Report(5*time.Minute, done)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", s.cfg.Addr())
		if err := s.app.Listen(s.cfg.Addr()); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		log.Println("context canceled")
	case sig := <-sigCh:
		log.Printf("received %v", sig)
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	log.Println("shutting down")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("redis close %s: %v", s.redis.Host, err)
		} else {
			log.Printf("redis closed %s", s.redis.Host)
		}
	}
	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := http.StatusText(code)
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(msg)
}
