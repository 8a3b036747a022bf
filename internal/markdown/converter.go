package markdown

import (
	"strings"

	"github.com/dgallion1/markdoc/internal/convert"
	"github.com/dgallion1/markdoc/internal/document"
)

// Converter converts Markdown by way of HTML.
type Converter struct {
	tr   *Transcoder
	html *convert.Converter
}

// NewConverter wraps an HTML converter. A nil transcoder gets the default.
func NewConverter(html *convert.Converter, tr *Transcoder) *Converter {
	if tr == nil {
		tr = NewTranscoder()
	}
	return &Converter{tr: tr, html: html}
}

// Convert transcodes src and converts the HTML at at. Sources that render
// to nothing, such as bare front matter, leave the target untouched.
func (c *Converter) Convert(src string, at convert.Point) error {
	_, err := c.ConvertMeta(src, at)
	return err
}

// ConvertMeta is Convert that also returns the front matter of src.
func (c *Converter) ConvertMeta(src string, at convert.Point) (map[string]any, error) {
	if src == "" {
		return nil, convert.ErrEmptyMarkup
	}
	res, err := c.tr.Transcode(src)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(res.HTML) == "" {
		return res.Meta, nil
	}
	return res.Meta, c.html.Convert(res.HTML, at)
}

func (c *Converter) Section(s *document.Section, src string) error {
	if s == nil {
		return convert.ErrNilTarget
	}
	return c.Convert(src, convert.HolderPoint{Holder: s})
}

func (c *Converter) HeaderFooter(hf *document.HeaderFooter, src string) error {
	if hf == nil {
		return convert.ErrNilTarget
	}
	return c.Convert(src, convert.HolderPoint{Holder: hf})
}

func (c *Converter) Cell(cell *document.Cell, src string) error {
	if cell == nil {
		return convert.ErrNilTarget
	}
	return c.Convert(src, convert.CellPoint{Cell: cell})
}

func (c *Converter) Paragraph(p *document.Paragraph, src string) error {
	if p == nil {
		return convert.ErrNilTarget
	}
	return c.Convert(src, convert.ParagraphPoint{Paragraph: p})
}
