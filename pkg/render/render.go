// Package render turns a Page into a complete HTML document.
//
// Views live in the embedded views/ tree and are parsed once by the fiber
// html engine with [[ ]] delimiters. Every value is contextually escaped by
// html/template, so request-derived titles and URLs never execute as markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/kiyor/vidembed/pkg/xnode"
)

//go:embed views
var viewsFS embed.FS

const (
	viewPlayer = "player"
	viewHome   = "home"
)

// DefaultLoadTimeout bounds how long the loading indicator stays up when
// the iframe never reports load.
const DefaultLoadTimeout = 8 * time.Second

// Page is the model of one document. An empty EmbedURL renders the home page.
type Page struct {
	Title    string
	EmbedURL string
	Subtitle string
}

type Options struct {
	// MovieAction and TVAction are the form targets on the home page.
	MovieAction string
	TVAction    string
	LoadTimeout time.Duration
	// Pretty indents the output.
	Pretty bool
}

type Renderer struct {
	engine *html.Engine
	opt    Options
}

type view struct {
	Page
	MovieAction   string
	TVAction      string
	LoadTimeoutMS int64
}

// New parses the embedded views. Template errors surface here, not per request.
func New(opt Options) (*Renderer, error) {
	if opt.LoadTimeout <= 0 {
		opt.LoadTimeout = DefaultLoadTimeout
	}
	if opt.MovieAction == "" {
		opt.MovieAction = "/go/movie"
	}
	if opt.TVAction == "" {
		opt.TVAction = "/go/tv"
	}

	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, fmt.Errorf("views: %w", err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.Delims("[[", "]]")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}
	return &Renderer{engine: engine, opt: opt}, nil
}

// Render writes the document for p to w.
func (r *Renderer) Render(w io.Writer, p Page) error {
	b, err := r.Bytes(p)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Bytes returns the document for p.
func (r *Renderer) Bytes(p Page) ([]byte, error) {
	name := viewPlayer
	if p.EmbedURL == "" {
		name = viewHome
	}
	v := view{
		Page:          p,
		MovieAction:   r.opt.MovieAction,
		TVAction:      r.opt.TVAction,
		LoadTimeoutMS: r.opt.LoadTimeout.Milliseconds(),
	}

	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, v); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	if !r.opt.Pretty {
		return buf.Bytes(), nil
	}
	doc, err := xnode.Parse(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("pretty %s: %w", name, err)
	}
	return []byte(doc.Pretty()), nil
}
