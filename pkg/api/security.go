package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ContentSecurityPolicy allows scripts, styles, images and frames from self
// and the given provider origins only.
func ContentSecurityPolicy(origins []string) string {
	src := strings.Join(append([]string{"'self'"}, origins...), " ")
	return strings.Join([]string{
		"default-src 'self'",
		"script-src " + src,
		"style-src " + src,
		"img-src " + src + " data:",
		"frame-src " + src,
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}, "; ")
}

// SecurityHeaders sets the CSP and friends on every response, including
// errors and static files. They are set again once the chain returns since
// fasthttp's ctx.Error resets response headers.
func SecurityHeaders(csp string) fiber.Handler {
	set := func(c *fiber.Ctx) {
		c.Set(fiber.HeaderContentSecurityPolicy, csp)
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderReferrerPolicy, "no-referrer")
	}
	return func(c *fiber.Ctx) error {
		set(c)
		err := c.Next()
		set(c)
		return err
	}
}
