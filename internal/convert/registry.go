package convert

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/dgallion1/markdoc/internal/document"
	"golang.org/x/net/html"
)

// TextKey is the registry key text nodes are dispatched under.
const TextKey = "#text"

// Handler converts one markup node. It returns the point the node's children
// attach to, or nil to leave the current point in place.
type Handler func(s *Scope, n *html.Node, at Point) (Point, error)

// Scope is what a handler sees besides the node and the insertion point.
type Scope struct {
	// Format covers the ancestors of the node being handled.
	Format Format
	opts   *Options
}

func (s *Scope) Options() Options     { return *s.opts }
func (s *Scope) Logger() *slog.Logger { return s.opts.Logger }

// Builder collects handlers before they are sealed into a Converter.
type Builder struct {
	opts     Options
	handlers map[string]Handler
}

// NewBuilder returns a builder holding the default handler set.
func NewBuilder(opts Options) *Builder {
	b := &Builder{opts: opts, handlers: make(map[string]Handler)}
	for level := 1; level <= 6; level++ {
		b.Handle("h"+strconv.Itoa(level), headingHandler(level))
	}
	b.Handle("p", handleParagraph)
	b.Handle("hr", handleRule)
	b.Handle("br", handleBreak)
	b.Handle("strong", formatHandler(document.Bold))
	b.Handle("b", formatHandler(document.Bold))
	b.Handle("em", formatHandler(document.Italic))
	b.Handle("i", formatHandler(document.Italic))
	b.Handle("u", formatHandler(document.Underline))
	b.Handle("a", handleAnchor)
	b.Handle(TextKey, handleText)
	b.Handle("li", handleListItem)
	b.Handle("table", handleTable)
	b.Handle("tr", handleRow)
	b.Handle("td", handleCell)
	b.Handle("th", handleCell)
	b.Handle("img", handleImage)
	return b
}

// Handle registers h for tag, replacing any existing handler.
func (b *Builder) Handle(tag string, h Handler) *Builder {
	b.handlers[strings.ToLower(tag)] = h
	return b
}

// Remove drops the handler for tag, making the tag transparent.
func (b *Builder) Remove(tag string) *Builder {
	delete(b.handlers, strings.ToLower(tag))
	return b
}

// Build seals the registry. Later changes to b do not affect the result.
func (b *Builder) Build() *Converter {
	handlers := make(map[string]Handler, len(b.handlers))
	for k, v := range b.handlers {
		handlers[k] = v
	}
	opts := b.opts.withDefaults()
	return &Converter{
		opts:     opts,
		handlers: handlers,
		log:      opts.Logger.With("component", "convert"),
	}
}

// New returns a Converter with the default handlers.
func New(opts Options) *Converter {
	return NewBuilder(opts).Build()
}
