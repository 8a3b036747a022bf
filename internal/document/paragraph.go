package document

import "strings"

// Alignment is a paragraph's horizontal alignment.
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustify
)

// ListType selects the numbering scheme of a list paragraph.
type ListType int

const (
	ListNone ListType = iota
	BulletList1
	NumberList1
)

// ListInfo marks a paragraph as a list item.
type ListInfo struct {
	ListType             ListType
	ContinuePreviousList bool
}

// Border is a single paragraph border line.
type Border struct {
	Width Unit
	Color Color
}

// ParagraphFormat is direct paragraph formatting. Unset units and nil
// pointers mean "inherit from the style".
type ParagraphFormat struct {
	Alignment       Alignment
	LeftIndent      Unit
	RightIndent     Unit
	FirstLineIndent Unit
	SpaceBefore     Unit
	SpaceAfter      Unit
	// LineSpacing is a multiple of single spacing.
	LineSpacing  *float64
	Font         Font
	ListInfo     *ListInfo
	BottomBorder *Border
}

// Paragraph is a block of inline content.
type Paragraph struct {
	Style    string
	Format   ParagraphFormat
	Elements []Inline

	container Container
}

func (*Paragraph) block() {}

// Container returns the block container the paragraph was added to, or nil
// for a detached paragraph.
func (p *Paragraph) Container() Container { return p.container }

// NewParagraph returns a paragraph that belongs to no container.
func NewParagraph() *Paragraph { return &Paragraph{} }

// SetStyle sets the style name and returns p.
func (p *Paragraph) SetStyle(name string) *Paragraph {
	p.Style = name
	return p
}

func (p *Paragraph) AddText(s string) *Text {
	t := &Text{Content: s}
	p.Elements = append(p.Elements, t)
	return t
}

// AddFormattedText appends a run holding s with the given font.
func (p *Paragraph) AddFormattedText(s string, f Font) *FormattedText {
	r := &FormattedText{Font: f, paragraph: p}
	r.AddText(s)
	p.Elements = append(p.Elements, r)
	return r
}

// AddRun appends an empty run with the given text format applied.
func (p *Paragraph) AddRun(tf TextFormat) *FormattedText {
	r := &FormattedText{paragraph: p}
	r.Font.Apply(tf)
	p.Elements = append(p.Elements, r)
	return r
}

func (p *Paragraph) AddHyperlink(target string, kind HyperlinkType) *Hyperlink {
	h := &Hyperlink{Target: target, Type: kind, paragraph: p}
	p.Elements = append(p.Elements, h)
	return h
}

func (p *Paragraph) AddLineBreak() {
	p.Elements = append(p.Elements, &LineBreak{})
}

func (p *Paragraph) AddImage(source string) *Image {
	img := &Image{Source: source}
	p.Elements = append(p.Elements, img)
	return img
}

// Text returns the concatenated text content, with line breaks as "\n".
func (p *Paragraph) Text() string {
	var b strings.Builder
	writeText(&b, p.Elements)
	return b.String()
}

func writeText(b *strings.Builder, elems []Inline) {
	for _, e := range elems {
		switch e := e.(type) {
		case *Text:
			b.WriteString(e.Content)
		case *FormattedText:
			writeText(b, e.Elements)
		case *Hyperlink:
			writeText(b, e.Elements)
		case *LineBreak:
			b.WriteByte('\n')
		}
	}
}
