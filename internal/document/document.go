// Package document is an in-memory structured document: sections holding
// paragraphs, tables and images, with header/footer regions and named styles.
package document

// Block is an element that can sit directly in a Container.
type Block interface {
	block()
}

// Inline is an element that can sit inside a paragraph, run or hyperlink.
type Inline interface {
	inline()
}

// Container holds block elements. Section, HeaderFooter and Cell implement it.
type Container interface {
	AddParagraph() *Paragraph
	AddTable() *Table
	AddImage(source string) *Image
	// LastParagraph returns the trailing block if it is a paragraph.
	LastParagraph() *Paragraph
	Blocks() []Block
}

// Info carries document metadata.
type Info struct {
	Title   string
	Author  string
	Subject string
}

// Document is the root of the tree.
type Document struct {
	Info     Info
	Styles   *Styles
	Sections []*Section
}

// New returns an empty document with the default style sheet.
func New() *Document {
	return &Document{Styles: DefaultStyles()}
}

// AddSection appends a section with empty primary header and footer regions.
func (d *Document) AddSection() *Section {
	s := &Section{
		Headers: HeadersFooters{Primary: &HeaderFooter{Style: StyleHeader}},
		Footers: HeadersFooters{Primary: &HeaderFooter{Style: StyleFooter}},
	}
	d.Sections = append(d.Sections, s)
	return s
}

// HeadersFooters groups the header or footer regions of a section.
type HeadersFooters struct {
	Primary *HeaderFooter
}

// Section is a run of body content with its own header and footer.
type Section struct {
	Headers HeadersFooters
	Footers HeadersFooters
	blocks  blockList
}

func (s *Section) AddParagraph() *Paragraph      { return s.blocks.addParagraph(s) }
func (s *Section) AddTable() *Table              { return s.blocks.addTable() }
func (s *Section) AddImage(source string) *Image { return s.blocks.addImage(source) }
func (s *Section) LastParagraph() *Paragraph     { return s.blocks.lastParagraph() }
func (s *Section) Blocks() []Block               { return s.blocks }

// HeaderFooter is a repeated page region. Style names the paragraph style
// applied to its paragraphs when none is set.
type HeaderFooter struct {
	Style  string
	blocks blockList
}

func (h *HeaderFooter) AddParagraph() *Paragraph {
	p := h.blocks.addParagraph(h)
	p.Style = h.Style
	return p
}
func (h *HeaderFooter) AddTable() *Table              { return h.blocks.addTable() }
func (h *HeaderFooter) AddImage(source string) *Image { return h.blocks.addImage(source) }
func (h *HeaderFooter) LastParagraph() *Paragraph     { return h.blocks.lastParagraph() }
func (h *HeaderFooter) Blocks() []Block               { return h.blocks }

type blockList []Block

func (b *blockList) addParagraph(owner Container) *Paragraph {
	p := &Paragraph{container: owner}
	*b = append(*b, p)
	return p
}

func (b *blockList) addTable() *Table {
	t := &Table{}
	*b = append(*b, t)
	return t
}

func (b *blockList) addImage(source string) *Image {
	img := &Image{Source: source}
	*b = append(*b, img)
	return img
}

func (b blockList) lastParagraph() *Paragraph {
	if len(b) == 0 {
		return nil
	}
	p, _ := b[len(b)-1].(*Paragraph)
	return p
}
