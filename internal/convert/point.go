package convert

import "github.com/dgallion1/markdoc/internal/document"

// Point is where converted content is attached. The concrete variants are
// the *Point structs in this package; the set is closed.
type Point interface {
	point()
}

type (
	// ParagraphPoint attaches inline content to an existing paragraph.
	ParagraphPoint struct{ Paragraph *document.Paragraph }
	// HolderPoint attaches blocks to a section or header/footer.
	HolderPoint struct{ Holder document.Container }
	CellPoint   struct{ Cell *document.Cell }
	TablePoint  struct{ Table *document.Table }
	RowPoint    struct{ Row *document.Row }
	// HyperlinkPoint attaches text inside a link.
	HyperlinkPoint struct{ Hyperlink *document.Hyperlink }
	// RunPoint attaches inside a formatted run.
	RunPoint struct{ Run *document.FormattedText }
)

func (ParagraphPoint) point() {}
func (HolderPoint) point()    {}
func (CellPoint) point()      {}
func (TablePoint) point()     {}
func (RowPoint) point()       {}
func (HyperlinkPoint) point() {}
func (RunPoint) point()       {}

// At returns the point for a block container.
func At(c document.Container) Point {
	if cell, ok := c.(*document.Cell); ok {
		return CellPoint{cell}
	}
	return HolderPoint{c}
}

func isNil(at Point) bool {
	switch at := at.(type) {
	case ParagraphPoint:
		return at.Paragraph == nil
	case HolderPoint:
		return at.Holder == nil
	case CellPoint:
		return at.Cell == nil
	case TablePoint:
		return at.Table == nil
	case RowPoint:
		return at.Row == nil
	case HyperlinkPoint:
		return at.Hyperlink == nil
	case RunPoint:
		return at.Run == nil
	}
	return true
}
