package convert

import (
	"github.com/dgallion1/markdoc/internal/document"
	"golang.org/x/net/html"
)

func handleListItem(s *Scope, n *html.Node, at Point) (Point, error) {
	style, listType := document.StyleUnorderedList, document.BulletList1
	if parentTag(n) == "ol" {
		style, listType = document.StyleOrderedList, document.NumberList1
	}
	first, last := listPosition(n)

	holder, target := listHost(n, at)
	var item *document.Paragraph
	switch {
	case holder != nil:
		if first {
			holder.AddParagraph().SetStyle(document.StyleListStart)
		}
		item = holder.AddParagraph().SetStyle(style)
		// A last item with a nested list closes once that list has.
		if last && nestedList(n) == nil {
			closeLists(holder, n)
		}
	case target != nil:
		// A lone paragraph has nowhere to put spacers, so it takes each
		// style in turn and keeps its list settings as direct formatting.
		if first {
			target.SetStyle(document.StyleListStart)
		}
		item = target.SetStyle(style)
		if last {
			target.SetStyle(document.StyleListEnd)
		}
	default:
		return at, nil
	}

	color := s.opts.ListItemColor
	item.Format.Font.Color = &color
	item.Format.ListInfo = &document.ListInfo{
		ListType:             listType,
		ContinuePreviousList: !first,
	}
	return ParagraphPoint{item}, nil
}

// listHost picks where list paragraphs go: a container to append to, or a
// single paragraph to restyle in place.
func listHost(n *html.Node, at Point) (document.Container, *document.Paragraph) {
	var p *document.Paragraph
	switch at := at.(type) {
	case HolderPoint:
		return at.Holder, nil
	case CellPoint:
		return at.Cell, nil
	case TablePoint, RowPoint:
		return nil, nil
	case ParagraphPoint:
		if c := at.Paragraph.Container(); c != nil && insideListItem(n) {
			return c, nil
		}
		return nil, at.Paragraph
	case HyperlinkPoint:
		p = at.Hyperlink.Paragraph()
	case RunPoint:
		p = at.Run.Paragraph()
	}
	if p == nil {
		return nil, nil
	}
	if c := p.Container(); c != nil {
		return c, nil
	}
	return nil, p
}

// closeLists ends li's list, then every enclosing list whose last item
// finishes with the list just closed.
func closeLists(holder document.Container, li *html.Node) {
	holder.AddParagraph().SetStyle(document.StyleListEnd)
	for {
		outer := enclosingItem(li)
		if outer == nil {
			return
		}
		if _, last := listPosition(outer); !last || nestedList(outer) != li.Parent {
			return
		}
		holder.AddParagraph().SetStyle(document.StyleListEnd)
		li = outer
	}
}

func enclosingItem(n *html.Node) *html.Node {
	for a := n.Parent; a != nil; a = a.Parent {
		if a.Type == html.ElementNode && a.Data == "li" {
			return a
		}
	}
	return nil
}

// nestedList returns the last ul or ol with items that belongs to li
// itself rather than to a deeper item.
func nestedList(li *html.Node) *html.Node {
	var found *html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.Data == "li" {
				continue
			}
			if (c.Data == "ul" || c.Data == "ol") && hasItems(c) {
				found = c
				continue
			}
			visit(c)
		}
	}
	visit(li)
	return found
}

func hasItems(list *html.Node) bool {
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			return true
		}
	}
	return false
}

func insideListItem(n *html.Node) bool {
	return enclosingItem(n) != nil
}

// listPosition reports whether n is the first and last li among its
// parent's li children.
func listPosition(n *html.Node) (first, last bool) {
	first, last = true, true
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode && sib.Data == "li" {
			first = false
			break
		}
	}
	for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type == html.ElementNode && sib.Data == "li" {
			last = false
			break
		}
	}
	return first, last
}
