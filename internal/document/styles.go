package document

import "fmt"

// Style names known to the default style sheet.
const (
	StyleNormal         = "Normal"
	StyleHeader         = "Header"
	StyleFooter         = "Footer"
	StyleHyperlink      = "Hyperlink"
	StyleUnorderedList  = "UnorderedList"
	StyleOrderedList    = "OrderedList"
	StyleListStart      = "ListStart"
	StyleListEnd        = "ListEnd"
	StyleHorizontalRule = "HorizontalRule"
)

// HeadingStyle returns the style name for heading level 1..6.
func HeadingStyle(level int) string {
	return fmt.Sprintf("Heading%d", level)
}

// Style is a named bundle of paragraph and font formatting. BaseStyle names
// the style it inherits from; the empty string means Normal.
type Style struct {
	Name      string
	BaseStyle string
	Format    ParagraphFormat
}

// Styles is a style sheet keyed by name.
type Styles struct {
	byName map[string]*Style
}

func NewStyles() *Styles {
	s := &Styles{byName: make(map[string]*Style)}
	s.Add(StyleNormal, "")
	return s
}

// Add registers a style, replacing any previous one with the same name.
func (s *Styles) Add(name, base string) *Style {
	st := &Style{Name: name, BaseStyle: base}
	s.byName[name] = st
	return st
}

// Get returns the named style or nil.
func (s *Styles) Get(name string) *Style {
	return s.byName[name]
}

// Resolve merges the named style over its base chain and returns the
// effective formatting. Unknown names resolve as Normal.
func (s *Styles) Resolve(name string) ParagraphFormat {
	var chain []*Style
	seen := make(map[string]bool)
	for n := name; ; {
		if n == "" {
			n = StyleNormal
		}
		st := s.byName[n]
		if st == nil && n != StyleNormal {
			n = StyleNormal
			continue
		}
		if st == nil || seen[n] {
			break
		}
		seen[n] = true
		chain = append(chain, st)
		if n == StyleNormal {
			break
		}
		n = st.BaseStyle
	}

	var out ParagraphFormat
	for i := len(chain) - 1; i >= 0; i-- {
		out = MergeFormat(out, chain[i].Format)
	}
	return out
}

// ListInfo returns the list settings a paragraph with the named style
// inherits, if any.
func (s *Styles) ListInfo(name string) (ListInfo, bool) {
	f := s.Resolve(name)
	if f.ListInfo == nil {
		return ListInfo{}, false
	}
	return *f.ListInfo, true
}

// MergeFormat lays over on top of base: every field set in over wins.
// Boolean font flags accumulate.
func MergeFormat(base, over ParagraphFormat) ParagraphFormat {
	out := base
	if over.Alignment != AlignDefault {
		out.Alignment = over.Alignment
	}
	for _, u := range []struct{ dst, src *Unit }{
		{&out.LeftIndent, &over.LeftIndent},
		{&out.RightIndent, &over.RightIndent},
		{&out.FirstLineIndent, &over.FirstLineIndent},
		{&out.SpaceBefore, &over.SpaceBefore},
		{&out.SpaceAfter, &over.SpaceAfter},
	} {
		if u.src.IsSet() {
			*u.dst = *u.src
		}
	}
	if over.LineSpacing != nil {
		out.LineSpacing = over.LineSpacing
	}
	if over.ListInfo != nil {
		out.ListInfo = over.ListInfo
	}
	if over.BottomBorder != nil {
		out.BottomBorder = over.BottomBorder
	}
	out.Font = MergeFont(base.Font, over.Font)
	return out
}

// MergeFont lays over on top of base.
func MergeFont(base, over Font) Font {
	out := base
	out.Bold = base.Bold || over.Bold
	out.Italic = base.Italic || over.Italic
	out.Underline = base.Underline || over.Underline
	if over.Color != nil {
		out.Color = over.Color
	}
	if over.Size != 0 {
		out.Size = over.Size
	}
	return out
}

func spacing(v float64) *float64 { return &v }

// DefaultStyles returns the style sheet documents are created with.
func DefaultStyles() *Styles {
	s := NewStyles()

	normal := s.Get(StyleNormal)
	normal.Format.Font = Font{Size: 10, Color: RGB(51, 51, 51)}
	normal.Format.LineSpacing = spacing(1.25)
	normal.Format.SpaceAfter = Pt(10)

	h1 := s.Add(HeadingStyle(1), StyleNormal)
	h1.Format.Font = Font{Bold: true, Size: 15, Color: RGB(88, 71, 76)}
	h2 := s.Add(HeadingStyle(2), StyleNormal)
	h2.Format.Font = Font{Bold: true, Size: 13, Color: RGB(108, 179, 63)}
	h3 := s.Add(HeadingStyle(3), StyleNormal)
	h3.Format.Font = Font{Bold: true, Size: 11, Color: RGB(0, 0, 0)}
	for level := 4; level <= 6; level++ {
		h := s.Add(HeadingStyle(level), HeadingStyle(3))
		h.Format.Font = Font{Size: 10}
	}

	link := s.Add(StyleHyperlink, StyleNormal)
	link.Format.Font = Font{Color: RGB(108, 179, 63)}

	s.Add(StyleHeader, StyleNormal)
	footer := s.Add(StyleFooter, StyleNormal)
	footer.Format.Font = Font{Size: 9, Color: RGB(150, 132, 126)}

	ul := s.Add(StyleUnorderedList, StyleNormal)
	ul.Format.ListInfo = &ListInfo{ListType: BulletList1}
	ul.Format.LeftIndent = Cm(1)
	ul.Format.FirstLineIndent = Cm(-0.5)
	ul.Format.SpaceAfter = Pt(0)

	ol := s.Add(StyleOrderedList, StyleUnorderedList)
	ol.Format.ListInfo = &ListInfo{ListType: NumberList1}

	start := s.Add(StyleListStart, StyleNormal)
	start.Format.SpaceAfter = Pt(0)
	start.Format.LineSpacing = spacing(0.5)

	end := s.Add(StyleListEnd, StyleListStart)
	end.Format.LineSpacing = spacing(1)

	hr := s.Add(StyleHorizontalRule, StyleNormal)
	hr.Format.BottomBorder = &Border{Width: Pt(1), Color: DarkGray}
	hr.Format.LineSpacing = spacing(0)
	hr.Format.SpaceBefore = Pt(15)

	return s
}
