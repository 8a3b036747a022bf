package document

// Text is a plain string.
type Text struct {
	Content string
}

func (*Text) inline() {}

// LineBreak forces a new line within a paragraph.
type LineBreak struct{}

func (*LineBreak) inline() {}

// TextFormat is a single boolean font flag.
type TextFormat int

const (
	Bold TextFormat = 1 << iota
	Italic
	Underline
)

// FormattedText is a run of inline content sharing one font.
type FormattedText struct {
	Font     Font
	Elements []Inline

	paragraph *Paragraph
}

func (*FormattedText) inline() {}

// Paragraph returns the paragraph that owns the run.
func (r *FormattedText) Paragraph() *Paragraph { return r.paragraph }

// Format sets tf on the run's font.
func (r *FormattedText) Format(tf TextFormat) {
	r.Font.Apply(tf)
}

func (r *FormattedText) AddText(s string) *Text {
	t := &Text{Content: s}
	r.Elements = append(r.Elements, t)
	return t
}

// AddFormattedText appends a nested run holding s.
func (r *FormattedText) AddFormattedText(s string, f Font) *FormattedText {
	nested := &FormattedText{Font: f, paragraph: r.paragraph}
	nested.AddText(s)
	r.Elements = append(r.Elements, nested)
	return nested
}

func (r *FormattedText) AddHyperlink(target string, kind HyperlinkType) *Hyperlink {
	h := &Hyperlink{Target: target, Type: kind, paragraph: r.paragraph}
	r.Elements = append(r.Elements, h)
	return h
}

func (r *FormattedText) AddLineBreak() {
	r.Elements = append(r.Elements, &LineBreak{})
}

// HyperlinkType is the kind of link target.
type HyperlinkType int

const (
	HyperlinkWeb HyperlinkType = iota
	HyperlinkLocal
	HyperlinkFile
)

// Hyperlink wraps inline content pointing at Target.
type Hyperlink struct {
	Target   string
	Type     HyperlinkType
	Elements []Inline

	paragraph *Paragraph
}

func (*Hyperlink) inline() {}

func (h *Hyperlink) Paragraph() *Paragraph { return h.paragraph }

func (h *Hyperlink) AddText(s string) *Text {
	t := &Text{Content: s}
	h.Elements = append(h.Elements, t)
	return t
}

// AddRun appends an empty run with tf applied.
func (h *Hyperlink) AddRun(tf TextFormat) *FormattedText {
	r := &FormattedText{paragraph: h.paragraph}
	r.Font.Apply(tf)
	h.Elements = append(h.Elements, r)
	return r
}

func (h *Hyperlink) AddLineBreak() {
	h.Elements = append(h.Elements, &LineBreak{})
}
