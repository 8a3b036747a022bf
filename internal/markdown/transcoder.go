// Package markdown turns Markdown into HTML and feeds it to the HTML
// converter.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Result is a transcoded Markdown source.
type Result struct {
	HTML string
	// Meta holds YAML front matter, nil when there is none.
	Meta map[string]any
}

// Title returns the front matter "title" entry, if it is a string.
func (r Result) Title() string {
	t, _ := r.Meta["title"].(string)
	return t
}

// Transcoder renders Markdown to HTML with auto links, GFM tables,
// strikethrough and front matter, passing raw HTML through.
type Transcoder struct {
	md goldmark.Markdown
}

// NewTranscoder returns a transcoder; extra extensions are added after the
// defaults.
func NewTranscoder(extra ...goldmark.Extender) *Transcoder {
	exts := []goldmark.Extender{
		extension.Linkify,
		extension.Table,
		extension.Strikethrough,
		meta.Meta,
	}
	exts = append(exts, extra...)
	return &Transcoder{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

func (t *Transcoder) Transcode(src string) (Result, error) {
	ctx := parser.NewContext()
	var buf bytes.Buffer
	if err := t.md.Convert([]byte(src), &buf, parser.WithContext(ctx)); err != nil {
		return Result{}, fmt.Errorf("render markdown: %w", err)
	}
	return Result{HTML: buf.String(), Meta: meta.Get(ctx)}, nil
}

// ToHTML renders src and drops any front matter.
func (t *Transcoder) ToHTML(src string) (string, error) {
	res, err := t.Transcode(src)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}
