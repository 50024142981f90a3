package core

import (
	"errors"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/kiyor/terminal/color"
)

// LogHandler writes one access log line per request.
type LogHandler struct {
	l *log.Logger
}

func NewLogHandler() *LogHandler {
	return &LogHandler{
		l: log.New(os.Stdout, color.Sprint("@{g}[http]@{|} "), log.LstdFlags),
	}
}

func (l *LogHandler) Set(out io.Writer, prefix string, flag int) {
	l.l = log.New(out, prefix, flag)
}

// Handler is the fiber middleware. Errors returned down the chain are passed
// through untouched; their status is logged the way the error handler will
// write it.
func (l *LogHandler) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t1 := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			}
		}
		size := c.Response().Header.ContentLength()
		if size < 0 {
			size = 0
		} else if size == 0 {
			size = len(c.Response().Body())
		}
		l.l.Printf("%v %v %v %v %v %v '%v'",
			c.IP(), status, humanize.IBytes(uint64(size)), c.Method(), c.OriginalURL(),
			time.Since(t1), c.Get(fiber.HeaderUserAgent))
		return err
	}
}
