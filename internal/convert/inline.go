package convert

import (
	"strings"

	"github.com/dgallion1/markdoc/internal/document"
	"golang.org/x/net/html"
)

func formatHandler(tf document.TextFormat) Handler {
	return func(s *Scope, n *html.Node, at Point) (Point, error) {
		switch at := at.(type) {
		case RunPoint:
			at.Run.Format(tf)
			return at, nil
		case HyperlinkPoint:
			return RunPoint{at.Hyperlink.AddRun(tf)}, nil
		}
		p, ok := inlineParagraph(at)
		if !ok {
			return at, nil
		}
		return RunPoint{p.AddRun(tf)}, nil
	}
}

func handleAnchor(s *Scope, n *html.Node, at Point) (Point, error) {
	href, _ := attr(n, "href")
	if run, ok := at.(RunPoint); ok {
		return HyperlinkPoint{run.Run.AddHyperlink(href, document.HyperlinkWeb)}, nil
	}
	p, ok := blockParagraph(at)
	if !ok {
		return at, nil
	}
	return HyperlinkPoint{p.AddHyperlink(href, document.HyperlinkWeb)}, nil
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

func handleText(s *Scope, n *html.Node, at Point) (Point, error) {
	text := lineBreaks.Replace(n.Data)
	if text == "" {
		return at, nil
	}

	switch at := at.(type) {
	case TablePoint, RowPoint:
		return at, nil
	case HyperlinkPoint:
		at.Hyperlink.AddText(text)
		return at, nil
	case RunPoint:
		s.Format.resetFont(&at.Run.Font)
		at.Run.AddFormattedText(text, s.Format.font())
		return at, nil
	case ParagraphPoint:
		if parentTag(n) == "h2" {
			c := s.opts.Heading2Color
			at.Paragraph.Format.Font.Color = &c
		}
	}

	p, ok := inlineParagraph(at)
	if !ok {
		return at, nil
	}
	s.Format.resetFont(&p.Format.Font)
	p.AddFormattedText(text, s.Format.font())
	return ParagraphPoint{p}, nil
}
