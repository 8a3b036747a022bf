package convert

import (
	"strings"

	"github.com/dgallion1/markdoc/internal/document"
	"golang.org/x/net/html"
)

func headingHandler(level int) Handler {
	style := document.HeadingStyle(level)
	return func(s *Scope, n *html.Node, at Point) (Point, error) {
		p, ok := blockParagraph(at)
		if !ok {
			return at, nil
		}
		p.SetStyle(style)
		return ParagraphPoint{p}, nil
	}
}

func handleParagraph(s *Scope, n *html.Node, at Point) (Point, error) {
	var p *document.Paragraph
	switch at := at.(type) {
	case TablePoint, RowPoint:
		return at, nil
	case HyperlinkPoint, RunPoint:
		return nil, nil
	case ParagraphPoint:
		p = at.Paragraph
	case HolderPoint:
		p = at.Holder.AddParagraph()
	case CellPoint:
		p = at.Cell.AddParagraph()
	}
	if p == nil {
		return nil, nil
	}

	if v, ok := attr(n, "align"); ok {
		if a, ok := parseAlignment(v); ok {
			p.Format.Alignment = a
		}
	}
	if v, ok := attr(n, "style"); ok {
		for _, d := range styleDeclarations(v) {
			switch d.property {
			case "margin-left":
				if u, err := document.ParseUnit(strings.TrimSuffix(d.value, "px")); err == nil {
					p.Format.LeftIndent = u
				}
			case "margin-right":
				if u, err := document.ParseUnit(strings.TrimSuffix(d.value, "px")); err == nil {
					p.Format.RightIndent = u
				}
			case "text-align":
				if a, ok := parseAlignment(d.value); ok {
					p.Format.Alignment = a
				}
			}
		}
	}
	return ParagraphPoint{p}, nil
}

func parseAlignment(v string) (document.Alignment, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left":
		return document.AlignLeft, true
	case "right":
		return document.AlignRight, true
	case "center":
		return document.AlignCenter, true
	case "justify":
		return document.AlignJustify, true
	}
	return document.AlignDefault, false
}

func handleRule(s *Scope, n *html.Node, at Point) (Point, error) {
	p, ok := blockParagraph(at)
	if !ok {
		return at, nil
	}
	p.SetStyle(document.StyleHorizontalRule)
	return ParagraphPoint{p}, nil
}

func handleBreak(s *Scope, n *html.Node, at Point) (Point, error) {
	switch at := at.(type) {
	case RunPoint:
		at.Run.AddLineBreak()
		return at, nil
	case HyperlinkPoint:
		at.Hyperlink.AddLineBreak()
		return at, nil
	}
	p, ok := blockParagraph(at)
	if !ok {
		return at, nil
	}
	p.AddLineBreak()
	return ParagraphPoint{p}, nil
}
