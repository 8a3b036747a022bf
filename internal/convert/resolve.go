package convert

import "github.com/dgallion1/markdoc/internal/document"

// blockParagraph resolves the paragraph a block-level tag writes to.
// Containers get a new paragraph; inline points hand back their owner.
// ok is false for table and row points, where block tags are inert.
func blockParagraph(at Point) (*document.Paragraph, bool) {
	var p *document.Paragraph
	switch at := at.(type) {
	case ParagraphPoint:
		p = at.Paragraph
	case HolderPoint:
		p = at.Holder.AddParagraph()
	case CellPoint:
		p = at.Cell.AddParagraph()
	case HyperlinkPoint:
		p = at.Hyperlink.Paragraph()
	case RunPoint:
		p = at.Run.Paragraph()
	case TablePoint, RowPoint:
	}
	return p, p != nil
}

// inlineParagraph resolves the paragraph text and b/i/u runs flow into.
// Containers reuse their trailing paragraph and add one only when the last
// block is something else. Links and breaks resolve like blocks.
func inlineParagraph(at Point) (*document.Paragraph, bool) {
	var p *document.Paragraph
	switch at := at.(type) {
	case ParagraphPoint:
		p = at.Paragraph
	case HolderPoint:
		p = trailingParagraph(at.Holder)
	case CellPoint:
		p = trailingParagraph(at.Cell)
	case HyperlinkPoint:
		p = at.Hyperlink.Paragraph()
	case RunPoint:
		p = at.Run.Paragraph()
	case TablePoint, RowPoint:
	}
	return p, p != nil
}

func trailingParagraph(c document.Container) *document.Paragraph {
	if p := c.LastParagraph(); p != nil {
		return p
	}
	return c.AddParagraph()
}

// containerOf returns the block container around at, or nil when there is
// none (table and row points, detached paragraphs).
func containerOf(at Point) document.Container {
	var p *document.Paragraph
	switch at := at.(type) {
	case HolderPoint:
		return at.Holder
	case CellPoint:
		return at.Cell
	case ParagraphPoint:
		p = at.Paragraph
	case HyperlinkPoint:
		p = at.Hyperlink.Paragraph()
	case RunPoint:
		p = at.Run.Paragraph()
	case TablePoint, RowPoint:
	}
	if p == nil {
		return nil
	}
	return p.Container()
}
