// Package route maps request paths onto third-party embed URLs.
//
// A Table is an ordered list of Specs; the first Spec whose pattern matches
// the path wins. Patterns are "/"-separated segments, each either a literal
// or a ":name" parameter matching exactly one non-empty segment that does not
// decode to "." or "..".
package route

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrNotFound is returned by Resolve when no declared pattern matches.
var ErrNotFound = errors.New("route not found")

// Route names of the default table.
const (
	Movie = "movie"
	TV    = "tv"
	Home  = "home"
)

// Default provider templates.
const (
	DefaultMovieEmbed = "https://embed.spencerdevs.xyz/embed/tmdb-movie-{id}"
	DefaultTVEmbed    = "https://vidsrc.su/embed/tv/{id}/{season}/{episode}"
)

var rePlaceholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Spec declares one route. Provider, Title and Subtitle may reference
// pattern parameters as {name}. An empty Provider marks a page without embed.
type Spec struct {
	Name     string
	Pattern  string
	Provider string
	Title    string
	Subtitle string
}

// Embed is the result of resolving a request path.
type Embed struct {
	Route    string
	Title    string
	EmbedURL string
	Subtitle string
	Params   map[string]string
}

// Home reports whether the embed carries no player.
func (e *Embed) Home() bool {
	return e.EmbedURL == ""
}

type segment struct {
	literal string
	param   string
}

type compiled struct {
	Spec
	segments []segment
}

// Table is an immutable, ordered route table. It is safe for concurrent use.
type Table struct {
	routes []compiled
	byName map[string]int
}

// Defaults returns the movie, tv and home routes in priority order.
func Defaults(movieEmbed, tvEmbed string) []Spec {
	return []Spec{
		{
			Name:     Movie,
			Pattern:  "/movie/:id",
			Provider: movieEmbed,
			Title:    "Movie Player",
			Subtitle: "TMDB {id}",
		},
		{
			Name:     TV,
			Pattern:  "/tv/:id/:season/:episode",
			Provider: tvEmbed,
			Title:    "TV Episode Player",
			Subtitle: "{id} · Season {season} · Episode {episode}",
		},
		{
			Name:    Home,
			Pattern: "/",
			Title:   "Movie & TV Player",
		},
	}
}

// NewTable compiles and validates specs.
func NewTable(specs ...Spec) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(specs))}
	for _, s := range specs {
		c, err := compile(s)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", s.Name, err)
		}
		if _, dup := t.byName[s.Name]; dup {
			return nil, fmt.Errorf("route %q: duplicate name", s.Name)
		}
		t.byName[s.Name] = len(t.routes)
		t.routes = append(t.routes, c)
	}
	return t, nil
}

func compile(s Spec) (compiled, error) {
	c := compiled{Spec: s}
	if s.Name == "" {
		return c, errors.New("empty name")
	}
	if !strings.HasPrefix(s.Pattern, "/") {
		return c, fmt.Errorf("pattern %q must start with /", s.Pattern)
	}
	params := make(map[string]bool)
	if s.Pattern != "/" {
		for _, part := range strings.Split(s.Pattern[1:], "/") {
			switch {
			case part == "":
				return c, fmt.Errorf("pattern %q has an empty segment", s.Pattern)
			case strings.HasPrefix(part, ":"):
				name := part[1:]
				if name == "" || params[name] {
					return c, fmt.Errorf("pattern %q: bad parameter %q", s.Pattern, part)
				}
				params[name] = true
				c.segments = append(c.segments, segment{param: name})
			default:
				c.segments = append(c.segments, segment{literal: part})
			}
		}
	}
	for _, tmpl := range []string{s.Provider, s.Title, s.Subtitle} {
		for _, m := range rePlaceholder.FindAllStringSubmatch(tmpl, -1) {
			if !params[m[1]] {
				return c, fmt.Errorf("placeholder {%s} is not a parameter of %q", m[1], s.Pattern)
			}
		}
	}
	if s.Provider != "" {
		u, err := url.Parse(rePlaceholder.ReplaceAllString(s.Provider, "x"))
		if err != nil {
			return c, fmt.Errorf("provider %q: %w", s.Provider, err)
		}
		if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return c, fmt.Errorf("provider %q is not an absolute http(s) URL", s.Provider)
		}
	}
	return c, nil
}

// match returns the decoded parameters when path matches c.
func (c *compiled) match(path string) (map[string]string, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	var parts []string
	if path != "/" {
		parts = strings.Split(path[1:], "/")
	}
	if len(parts) != len(c.segments) {
		return nil, false
	}
	params := make(map[string]string, len(parts))
	for i, seg := range c.segments {
		raw := parts[i]
		if raw == "" {
			return nil, false
		}
		if seg.param == "" {
			if raw != seg.literal {
				return nil, false
			}
			continue
		}
		v, err := url.PathUnescape(raw)
		if err != nil || !validParam(v) {
			return nil, false
		}
		params[seg.param] = v
	}
	return params, true
}

// Resolve matches the raw (still percent-encoded) request path against the
// table. Trailing and doubled slashes are not normalized and do not match.
func (t *Table) Resolve(path string) (*Embed, error) {
	for i := range t.routes {
		c := &t.routes[i]
		params, ok := c.match(path)
		if !ok {
			continue
		}
		e := &Embed{
			Route:    c.Name,
			Title:    expand(c.Title, params, identity),
			Subtitle: expand(c.Subtitle, params, identity),
			Params:   params,
		}
		if c.Provider != "" {
			e.EmbedURL = expand(c.Provider, params, url.PathEscape)
		}
		return e, nil
	}
	return nil, ErrNotFound
}

// Path builds the request path of the named route with every parameter
// percent-encoded. All pattern parameters must be present and non-empty.
func (t *Table) Path(name string, params map[string]string) (string, error) {
	i, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	c := &t.routes[i]
	var b strings.Builder
	for _, seg := range c.segments {
		b.WriteByte('/')
		if seg.param == "" {
			b.WriteString(seg.literal)
			continue
		}
		v := params[seg.param]
		if v == "" {
			return "", fmt.Errorf("route %s: missing parameter %s", name, seg.param)
		}
		if !validParam(v) {
			return "", fmt.Errorf("route %s: invalid parameter %s=%q", name, seg.param, v)
		}
		b.WriteString(url.PathEscape(v))
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

// Origins returns the distinct scheme://host origins of all providers, in
// table order.
func (t *Table) Origins() []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range t.routes {
		if c.Provider == "" {
			continue
		}
		u, err := url.Parse(rePlaceholder.ReplaceAllString(c.Provider, "x"))
		if err != nil {
			continue
		}
		o := u.Scheme + "://" + u.Host
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// Specs returns a copy of the declared routes.
func (t *Table) Specs() []Spec {
	out := make([]Spec, len(t.routes))
	for i, c := range t.routes {
		out[i] = c.Spec
	}
	return out
}

// validParam rejects empty values and dot segments. PathEscape leaves "."
// alone, and browsers collapse "." and ".." (encoded or not) in the provider
// URL.
func validParam(v string) bool {
	return v != "" && v != "." && v != ".."
}

func identity(s string) string { return s }

func expand(tmpl string, params map[string]string, escape func(string) string) string {
	return rePlaceholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		return escape(params[m[1:len(m)-1]])
	})
}
