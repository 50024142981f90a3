package api

import (
	_ "embed"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kiyor/vidembed/pkg/render"
	"github.com/kiyor/vidembed/pkg/route"
)

var (
	//go:embed assets/player.css
	playerCSS []byte
	//go:embed assets/player.js
	playerJS []byte
)

// page serves every declared route. The raw path is resolved as received;
// anything the table does not declare falls through to the next handler.
func (s *Server) page(c *fiber.Ctx) error {
	path := c.Path()
	e, err := s.routes.Resolve(path)
	if errors.Is(err, route.ErrNotFound) {
		return c.Next()
	}
	if err != nil {
		return err
	}

	b, hit := s.cache.Get(path)
	if hit {
		s.metrics.CacheHits.Inc()
	} else {
		b, err = s.renderer.Bytes(render.Page{
			Title:    e.Title,
			EmbedURL: e.EmbedURL,
			Subtitle: e.Subtitle,
		})
		if err != nil {
			return err
		}
		s.cache.Set(path, b)
	}
	s.metrics.Pages.WithLabelValues(e.Route).Inc()

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(b)
}

// goMovie and goTV turn the home page form submissions into player paths.
func (s *Server) goMovie(c *fiber.Ctx) error {
	return s.redirect(c, route.Movie, "id")
}

func (s *Server) goTV(c *fiber.Ctx) error {
	return s.redirect(c, route.TV, "id", "season", "episode")
}

func (s *Server) redirect(c *fiber.Ctx, name string, keys ...string) error {
	params := make(map[string]string, len(keys))
	for _, k := range keys {
		params[k] = strings.TrimSpace(c.Query(k))
	}
	p, err := s.routes.Path(name, params)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.Redirect(p, fiber.StatusFound)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) notFound(c *fiber.Ctx) error {
	s.metrics.NotFound.Inc()
	return fiber.ErrNotFound
}

func serveAsset(contentType string, body []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderCacheControl, "public, max-age=300")
		return c.Send(body)
	}
}
