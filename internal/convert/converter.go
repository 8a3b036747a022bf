// Package convert walks parsed HTML and builds document content at an
// insertion point: paragraphs, runs, links, lists, tables and images.
package convert

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/markdoc/internal/document"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Converter turns HTML into document content. It is immutable once built
// and safe for concurrent use.
type Converter struct {
	opts     Options
	handlers map[string]Handler
	log      *slog.Logger
}

// Options returns the effective options, defaults filled in.
func (c *Converter) Options() Options { return c.opts }

// Convert parses markup as a body fragment and converts it at at.
func (c *Converter) Convert(markup string, at Point) error {
	c.sweep()

	if markup == "" {
		return ErrEmptyMarkup
	}
	if at == nil || isNil(at) {
		return ErrNilTarget
	}

	root, err := parseFragment(markup)
	if err != nil {
		return fmt.Errorf("parse markup: %w", err)
	}
	return c.walk(&Scope{opts: &c.opts}, root, at)
}

// Section converts markup into the body of s.
func (c *Converter) Section(s *document.Section, markup string) error {
	if s == nil {
		return ErrNilTarget
	}
	return c.Convert(sanitize(markup), HolderPoint{s})
}

// HeaderFooter converts markup into a header or footer region.
func (c *Converter) HeaderFooter(hf *document.HeaderFooter, markup string) error {
	if hf == nil {
		return ErrNilTarget
	}
	return c.Convert(sanitize(markup), HolderPoint{hf})
}

// Cell converts markup into a table cell.
func (c *Converter) Cell(cell *document.Cell, markup string) error {
	if cell == nil {
		return ErrNilTarget
	}
	return c.Convert(sanitize(markup), CellPoint{cell})
}

// Paragraph converts markup into an existing paragraph.
func (c *Converter) Paragraph(p *document.Paragraph, markup string) error {
	if p == nil {
		return ErrNilTarget
	}
	return c.Convert(sanitize(markup), ParagraphPoint{p})
}

// sanitize unescapes quotes that arrive backslash-escaped from JSON-ish
// sources.
func sanitize(markup string) string {
	return strings.ReplaceAll(markup, `\"`, `"`)
}

func (c *Converter) walk(s *Scope, n *html.Node, at Point) error {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		next := at
		if h, ok := c.handlers[nodeKey(child)]; ok {
			res, err := h(s, child, at)
			if err != nil {
				return err
			}
			if res != nil {
				next = res
			}
		}
		inner := &Scope{Format: s.Format.Enter(child), opts: s.opts}
		if err := c.walk(inner, child, next); err != nil {
			return err
		}
	}
	return nil
}

func nodeKey(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return TextKey
	case html.ElementNode:
		return n.Data
	}
	return ""
}

func (c *Converter) sweep() {
	cutoff := c.opts.Now().Add(-c.opts.AssetRetention)
	removed, err := c.opts.Assets.Sweep(cutoff)
	if err != nil {
		c.log.Warn("asset sweep failed", "error", err)
		return
	}
	if removed > 0 {
		c.log.Debug("swept assets", "removed", removed)
	}
}

// parseFragment parses markup in a <body> context and hangs the result off
// a document node so every node has a parent.
func parseFragment(markup string) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func parentTag(n *html.Node) string {
	if n.Parent == nil || n.Parent.Type != html.ElementNode {
		return ""
	}
	return n.Parent.Data
}
