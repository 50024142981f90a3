// Package xnode is a small DOM helper over golang.org/x/net/html with CSS
// selectors from cascadia.
package xnode

import (
	"bytes"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/yosssi/gohtml"
	"golang.org/x/net/html"
)

type Node struct {
	*html.Node
}

type NodeList []*Node

// Parse parses a full HTML document.
func Parse(b []byte) (*Node, error) {
	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return &Node{doc}, nil
}

// Find returns all descendants matching a CSS selector. An invalid selector
// matches nothing.
func (n *Node) Find(selector string) NodeList {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	matches := sel.MatchAll(n.Node)
	nodes := make(NodeList, len(matches))
	for i, m := range matches {
		nodes[i] = &Node{m}
	}
	return nodes
}

// First returns the first match or nil.
func (n *Node) First(selector string) *Node {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	m := sel.MatchFirst(n.Node)
	if m == nil {
		return nil
	}
	return &Node{m}
}

func (list NodeList) Each(fn func(i int, n *Node)) {
	for i, node := range list {
		fn(i, node)
	}
}

func (n *Node) Attr(key string) string {
	val, _ := n.GetAttribute(key)
	return val
}

func (n *Node) GetAttribute(key string) (string, bool) {
	for _, attr := range n.Node.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// Text concatenates all descendant text nodes.
func (n *Node) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		if h.Type == html.TextNode {
			b.WriteString(h.Data)
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n.Node)
	return strings.TrimSpace(b.String())
}

func (n *Node) String() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n.Node); err != nil {
		return ""
	}
	return buf.String()
}

// Pretty re-serializes the tree and indents it.
func (n *Node) Pretty() string {
	return gohtml.Format(n.String())
}
