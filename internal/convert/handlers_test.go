package convert

import (
	"errors"
	"math"
	"testing"

	"github.com/dgallion1/markdoc/internal/document"
	"golang.org/x/net/html"
)

func TestFormattingFlagsFollowAncestorsOnly(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   Format
	}{
		{"bold", "<b>x</b>", Format{Bold: true}},
		{"strong", "<strong>x</strong>", Format{Bold: true}},
		{"italic underline", "<i><u>x</u></i>", Format{Italic: true, Underline: true}},
		{"all three", "<u><b><i>x</i></b></u>", Format{true, true, true}},
		{"em inside strong", "<strong>y<em>x</em></strong>", Format{Bold: true, Italic: true}},
		{"previous sibling bold", "<strong>y</strong>x", Format{}},
		{"next sibling bold", "<em>x</em><b>y</b>", Format{Italic: true}},
		{"underline then plain", "<u>y</u><i>x</i>", Format{Italic: true}},
		{"plain", "x", Format{}},
	}
	c, _, _ := newTestConverter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := newSection()
			if err := c.Section(sec, "<p>"+tt.markup+"</p>"); err != nil {
				t.Fatalf("Section: %v", err)
			}
			ps := paragraphs(t, sec.Blocks())
			if len(ps) != 1 {
				t.Fatalf("expected 1 paragraph, got %d", len(ps))
			}
			r := runWith(ps[0].Elements, "x")
			if r == nil {
				t.Fatalf("no run holds x")
			}
			got := Format{r.Font.Bold, r.Font.Italic, r.Font.Underline}
			if got != tt.want {
				t.Errorf("flags = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParagraphAlignAttribute(t *testing.T) {
	c, _, _ := newTestConverter(t)
	sec := newSection()
	if err := c.Section(sec, `<p align="center">text</p>`); err != nil {
		t.Fatalf("Section: %v", err)
	}
	ps := paragraphs(t, sec.Blocks())
	if len(ps) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(ps))
	}
	p := ps[0]
	if p.Format.Alignment != document.AlignCenter {
		t.Errorf("alignment = %v", p.Format.Alignment)
	}
	if len(p.Elements) != 1 {
		t.Fatalf("expected a single run, got %d elements", len(p.Elements))
	}
	r, ok := p.Elements[0].(*document.FormattedText)
	if !ok {
		t.Fatalf("expected run, got %T", p.Elements[0])
	}
	if r.Font.Bold || r.Font.Italic || r.Font.Underline {
		t.Errorf("run should be unformatted: %+v", r.Font)
	}
	if p.Text() != "text" {
		t.Errorf("text = %q", p.Text())
	}
}

func TestParagraphStyleDeclarations(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		align  document.Alignment
		left   document.Unit
		right  document.Unit
	}{
		{"margins", `<p style="margin-left: 20px; margin-right:1cm">x</p>`, document.AlignDefault, document.Pt(20), document.Cm(1)},
		{"last align wins", `<p style="text-align:left;text-align: Center">x</p>`, document.AlignCenter, document.Unit{}, document.Unit{}},
		{"style beats attribute", `<p align="right" style="text-align: justify">x</p>`, document.AlignJustify, document.Unit{}, document.Unit{}},
		{"malformed ignored", `<p align="middle" style="margin-left: wide; text-align: sideways">x</p>`, document.AlignDefault, document.Unit{}, document.Unit{}},
		{"important", `<p style="text-align: right !important">x</p>`, document.AlignRight, document.Unit{}, document.Unit{}},
		{"property case and stray entry", `<p style="TEXT-ALIGN: center; bogus; margin-left: 5px">x</p>`, document.AlignCenter, document.Pt(5), document.Unit{}},
		{"quoted semicolon", `<p style='font-family: "a;b"; text-align: right'>x</p>`, document.AlignRight, document.Unit{}, document.Unit{}},
	}
	c, _, _ := newTestConverter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := newSection()
			if err := c.Section(sec, tt.markup); err != nil {
				t.Fatalf("Section: %v", err)
			}
			p := paragraphs(t, sec.Blocks())[0]
			if p.Format.Alignment != tt.align {
				t.Errorf("alignment = %v, want %v", p.Format.Alignment, tt.align)
			}
			if p.Format.LeftIndent != tt.left || p.Format.RightIndent != tt.right {
				t.Errorf("indents = %v/%v, want %v/%v", p.Format.LeftIndent, p.Format.RightIndent, tt.left, tt.right)
			}
		})
	}
}

func TestParagraphKeepsListFormatting(t *testing.T) {
	c, _, _ := newTestConverter(t)
	sec := newSection()
	if err := c.Section(sec, `<ol><li><p align="center">loose</p></li></ol>`); err != nil {
		t.Fatalf("Section: %v", err)
	}
	ps := paragraphs(t, sec.Blocks())
	if len(ps) != 3 {
		t.Fatalf("expected start, item, end; got %d paragraphs", len(ps))
	}
	item := ps[1]
	if item.Format.ListInfo == nil || item.Format.ListInfo.ListType != document.NumberList1 {
		t.Errorf("list info lost: %+v", item.Format.ListInfo)
	}
	if item.Format.Alignment != document.AlignCenter || item.Text() != "loose" {
		t.Errorf("item = %q aligned %v", item.Text(), item.Format.Alignment)
	}
}

func TestHorizontalRule(t *testing.T) {
	c, _, _ := newTestConverter(t)
	sec := newSection()
	if err := c.Section(sec, `<p>a</p><hr><p>b</p>`); err != nil {
		t.Fatalf("Section: %v", err)
	}
	ps := paragraphs(t, sec.Blocks())
	if len(ps) != 3 || ps[1].Style != document.StyleHorizontalRule {
		t.Fatalf("expected rule between paragraphs, got %d", len(ps))
	}
}

func TestLineBreaks(t *testing.T) {
	c, _, _ := newTestConverter(t)

	sec := newSection()
	if err := c.Section(sec, `<p>a<br>b</p>`); err != nil {
		t.Fatalf("Section: %v", err)
	}
	p := paragraphs(t, sec.Blocks())[0]
	if p.Text() != "a\nb" {
		t.Errorf("paragraph text = %q", p.Text())
	}
	if _, ok := p.Elements[1].(*document.LineBreak); !ok {
		t.Errorf("expected paragraph-level break, got %T", p.Elements[1])
	}

	sec = newSection()
	if err := c.Section(sec, `<p><b>a<br>b</b></p>`); err != nil {
		t.Fatalf("Section: %v", err)
	}
	p = paragraphs(t, sec.Blocks())[0]
	outer, ok := p.Elements[0].(*document.FormattedText)
	if !ok || len(p.Elements) != 1 {
		t.Fatalf("expected one bold run, got %+v", p.Elements)
	}
	if _, ok := outer.Elements[1].(*document.LineBreak); !ok {
		t.Errorf("expected run-level break, got %T", outer.Elements[1])
	}
}

func TestLinksAndBreaksStartParagraphsInContainers(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		last   string
	}{
		{"link after heading", `<h1>Title</h1><a href="u">x</a>`, "x"},
		{"break after heading", `<h1>Title</h1><br>`, "\n"},
		{"link after text", `plain<a href="u">x</a>`, "x"},
	}
	c, _, _ := newTestConverter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := newSection()
			if err := c.Section(sec, tt.markup); err != nil {
				t.Fatalf("Section: %v", err)
			}
			ps := paragraphs(t, sec.Blocks())
			if len(ps) != 2 {
				t.Fatalf("expected 2 paragraphs, got %d", len(ps))
			}
			if ps[1].Style != "" || ps[1].Text() != tt.last {
				t.Errorf("second paragraph = style %q text %q", ps[1].Style, ps[1].Text())
			}
		})
	}

	sec := newSection()
	if err := c.Section(sec, `<table><tr><td>x<a href="u">y</a><br></td></tr></table>`); err != nil {
		t.Fatalf("Section: %v", err)
	}
	cell := sec.Blocks()[0].(*document.Table).Rows[0].Cells[0]
	if n := len(paragraphs(t, cell.Blocks())); n != 3 {
		t.Errorf("cell paragraphs = %d, want 3", n)
	}

	// Text and formatting still flow into the trailing paragraph.
	sec = newSection()
	if err := c.Section(sec, `a<b>b</b>`); err != nil {
		t.Fatalf("Section: %v", err)
	}
	if ps := paragraphs(t, sec.Blocks()); len(ps) != 1 || ps[0].Text() != "ab" {
		t.Errorf("inline text split into %d paragraphs", len(ps))
	}
}

func TestTextHandling(t *testing.T) {
	c, _, _ := newTestConverter(t)

	t.Run("line feeds stripped", func(t *testing.T) {
		sec := newSection()
		c.Section(sec, "<p>a\r\nb\n</p>")
		if got := paragraphs(t, sec.Blocks())[0].Text(); got != "ab" {
			t.Errorf("text = %q", got)
		}
	})

	t.Run("entities decoded once", func(t *testing.T) {
		sec := newSection()
		c.Section(sec, "<p>&amp;lt; &lt;&nbsp;</p>")
		if got := paragraphs(t, sec.Blocks())[0].Text(); got != "&lt; <\u00a0" {
			t.Errorf("text = %q", got)
		}
	})

	t.Run("h2 color", func(t *testing.T) {
		conv := New(Options{Final: true, Assets: memStore(), Heading2Color: document.Color{R: 1, G: 2, B: 3}})
		sec := newSection()
		conv.Section(sec, "<h2>Sub</h2><h3>Other</h3>")
		ps := paragraphs(t, sec.Blocks())
		if c := ps[0].Format.Font.Color; c == nil || *c != (document.Color{R: 1, G: 2, B: 3}) {
			t.Errorf("h2 color = %v", c)
		}
		if ps[1].Format.Font.Color != nil {
			t.Errorf("h3 should keep style color, got %v", ps[1].Format.Font.Color)
		}
	})

	t.Run("text after table starts a paragraph", func(t *testing.T) {
		sec := newSection()
		c.Section(sec, "<table><tr><td>x</td></tr></table>tail")
		blocks := sec.Blocks()
		if len(blocks) != 2 {
			t.Fatalf("expected table and paragraph, got %d blocks", len(blocks))
		}
		if p, ok := blocks[1].(*document.Paragraph); !ok || p.Text() != "tail" {
			t.Errorf("trailing block = %+v", blocks[1])
		}
	})

	t.Run("text joins trailing paragraph", func(t *testing.T) {
		sec := newSection()
		c.Section(sec, "<p>a</p>b")
		ps := paragraphs(t, sec.Blocks())
		if len(ps) != 1 || ps[0].Text() != "ab" {
			t.Errorf("paragraphs = %d, first %q", len(ps), ps[0].Text())
		}
	})
}

func TestHyperlinks(t *testing.T) {
	c, _, _ := newTestConverter(t)

	sec := newSection()
	if err := c.Section(sec, `<p>see <a href="https://example.com">site</a></p>`); err != nil {
		t.Fatalf("Section: %v", err)
	}
	p := paragraphs(t, sec.Blocks())[0]
	link, ok := p.Elements[1].(*document.Hyperlink)
	if !ok {
		t.Fatalf("expected hyperlink, got %T", p.Elements[1])
	}
	if link.Target != "https://example.com" || link.Type != document.HyperlinkWeb {
		t.Errorf("link = %+v", link)
	}
	if len(link.Elements) != 1 {
		t.Fatalf("link elements = %d", len(link.Elements))
	}
	if tx, ok := link.Elements[0].(*document.Text); !ok || tx.Content != "site" {
		t.Errorf("link text should be plain text, got %+v", link.Elements[0])
	}

	sec = newSection()
	c.Section(sec, `<p><b><a>bare</a></b></p>`)
	p = paragraphs(t, sec.Blocks())[0]
	run := p.Elements[0].(*document.FormattedText)
	link, ok = run.Elements[0].(*document.Hyperlink)
	if !ok {
		t.Fatalf("expected hyperlink inside run, got %T", run.Elements[0])
	}
	if link.Target != "" {
		t.Errorf("missing href should give empty target, got %q", link.Target)
	}

	sec = newSection()
	c.Section(sec, `<p><a href="u"><i>styled</i></a></p>`)
	link = paragraphs(t, sec.Blocks())[0].Elements[0].(*document.Hyperlink)
	inner, ok := link.Elements[0].(*document.FormattedText)
	if !ok || !inner.Font.Italic {
		t.Errorf("expected italic run inside link, got %+v", link.Elements[0])
	}
}

func TestListSpacersAndContinuation(t *testing.T) {
	c, _, _ := newTestConverter(t)
	for _, tc := range []struct {
		tag      string
		style    string
		listType document.ListType
	}{
		{"ul", document.StyleUnorderedList, document.BulletList1},
		{"ol", document.StyleOrderedList, document.NumberList1},
	} {
		sec := newSection()
		markup := "<" + tc.tag + "><li>a</li>\n<li>b</li>\n<li>c</li></" + tc.tag + ">"
		if err := c.Section(sec, markup); err != nil {
			t.Fatalf("Section: %v", err)
		}
		ps := paragraphs(t, sec.Blocks())
		if len(ps) != 5 {
			t.Fatalf("%s: expected 5 paragraphs, got %d", tc.tag, len(ps))
		}
		if ps[0].Style != document.StyleListStart || ps[4].Style != document.StyleListEnd {
			t.Errorf("%s: spacers = %q, %q", tc.tag, ps[0].Style, ps[4].Style)
		}
		for i, want := range []string{"a", "b", "c"} {
			item := ps[i+1]
			if item.Style != tc.style || item.Text() != want {
				t.Errorf("%s item %d: style %q text %q", tc.tag, i, item.Style, item.Text())
			}
			li := item.Format.ListInfo
			if li == nil || li.ListType != tc.listType {
				t.Fatalf("%s item %d: list info %+v", tc.tag, i, li)
			}
			if li.ContinuePreviousList != (i != 0) {
				t.Errorf("%s item %d: continue = %v", tc.tag, i, li.ContinuePreviousList)
			}
			if item.Format.Font.Color == nil || *item.Format.Font.Color != document.Black {
				t.Errorf("%s item %d: color = %v", tc.tag, i, item.Format.Font.Color)
			}
		}
	}
}

func TestSingleItemListInParagraphTarget(t *testing.T) {
	c, _, _ := newTestConverter(t)
	p := document.NewParagraph()
	if err := c.Paragraph(p, "<ul><li>only</li></ul>"); err != nil {
		t.Fatalf("Paragraph: %v", err)
	}
	if p.Style != document.StyleListEnd {
		t.Errorf("style = %q", p.Style)
	}
	if p.Format.ListInfo == nil || p.Format.ListInfo.ContinuePreviousList {
		t.Errorf("list info = %+v", p.Format.ListInfo)
	}
	if p.Text() != "only" {
		t.Errorf("text = %q", p.Text())
	}
}

func TestNestedListGetsOwnParagraphs(t *testing.T) {
	const (
		start = document.StyleListStart
		end   = document.StyleListEnd
		ul    = document.StyleUnorderedList
		ol    = document.StyleOrderedList
	)
	tests := []struct {
		name   string
		markup string
		styles []string
		texts  []string
	}{
		{
			"under last item",
			"<ul><li>outer<ol><li>inner</li></ol></li></ul>",
			[]string{start, ul, start, ol, end, end},
			[]string{"", "outer", "", "inner", "", ""},
		},
		{
			"under middle item",
			"<ul><li>a<ul><li>b</li></ul></li><li>c</li></ul>",
			[]string{start, ul, start, ul, end, ul, end},
			[]string{"", "a", "", "b", "", "c", ""},
		},
		{
			"three levels",
			"<ul><li>a<ul><li>b<ol><li>c</li></ol></li></ul></li></ul>",
			[]string{start, ul, start, ul, start, ol, end, end, end},
			[]string{"", "a", "", "b", "", "c", "", "", ""},
		},
	}
	c, _, _ := newTestConverter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := newSection()
			if err := c.Section(sec, tt.markup); err != nil {
				t.Fatalf("Section: %v", err)
			}
			ps := paragraphs(t, sec.Blocks())
			if len(ps) != len(tt.styles) {
				t.Fatalf("got %d paragraphs, want %d", len(ps), len(tt.styles))
			}
			for i, p := range ps {
				if p.Style != tt.styles[i] || p.Text() != tt.texts[i] {
					t.Errorf("paragraph %d = %q %q, want %q %q", i, p.Style, p.Text(), tt.styles[i], tt.texts[i])
				}
			}
		})
	}
}

func TestListInsideCell(t *testing.T) {
	c, _, _ := newTestConverter(t)
	sec := newSection()
	if err := c.Section(sec, "<table><tr><td><ul><li>x</li></ul></td></tr></table>"); err != nil {
		t.Fatalf("Section: %v", err)
	}
	cell := sec.Blocks()[0].(*document.Table).Rows[0].Cells[0]
	ps := paragraphs(t, cell.Blocks())
	if len(ps) != 3 || ps[1].Text() != "x" {
		t.Fatalf("cell paragraphs = %d", len(ps))
	}
}

func TestTableShape(t *testing.T) {
	c, _, _ := newTestConverter(t)
	sec := newSection()
	markup := `<table>
  <tr><td>a</td><td>b</td><td>c</td></tr>
  <tr><td>d</td><td>e</td><td>f</td></tr>
</table>`
	if err := c.Section(sec, markup); err != nil {
		t.Fatalf("Section: %v", err)
	}
	if len(sec.Blocks()) != 1 {
		t.Fatalf("expected only the table, got %d blocks", len(sec.Blocks()))
	}
	tbl := sec.Blocks()[0].(*document.Table)
	if len(tbl.Columns) != 3 {
		t.Fatalf("columns = %d", len(tbl.Columns))
	}
	for i, col := range tbl.Columns {
		if col.Width.Type != document.Centimeter || math.Abs(col.Width.Value-16.0/3) > 1e-9 {
			t.Errorf("column %d width = %v", i, col.Width)
		}
	}
	if tbl.Borders.Width != document.Pt(0.5) {
		t.Errorf("borders = %v", tbl.Borders.Width)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d", len(tbl.Rows))
	}
	for r, row := range [][]string{{"a", "b", "c"}, {"d", "e", "f"}} {
		for i, want := range row {
			ps := paragraphs(t, tbl.Rows[r].Cells[i].Blocks())
			if len(ps) != 1 || ps[0].Text() != want {
				t.Errorf("cell %d,%d = %+v", r, i, ps)
			}
		}
	}
}

func TestHeaderCellsAndNestedTables(t *testing.T) {
	c, _, _ := newTestConverter(t)
	sec := newSection()
	markup := `<table><thead><tr><th>H1</th><th>H2</th></tr></thead>
<tbody><tr><td><table><tr><td>n1</td><td>n2</td><td>n3</td><td>n4</td></tr></table></td><td>v</td></tr></tbody></table>`
	if err := c.Section(sec, markup); err != nil {
		t.Fatalf("Section: %v", err)
	}
	tbl := sec.Blocks()[0].(*document.Table)
	if len(tbl.Columns) != 2 || len(tbl.Rows) != 2 {
		t.Fatalf("shape = %d cols, %d rows", len(tbl.Columns), len(tbl.Rows))
	}
	if got := paragraphs(t, tbl.Rows[0].Cells[1].Blocks())[0].Text(); got != "H2" {
		t.Errorf("header cell = %q", got)
	}
	nested, ok := tbl.Rows[1].Cells[0].Blocks()[0].(*document.Table)
	if !ok {
		t.Fatalf("expected nested table in first cell")
	}
	if len(nested.Columns) != 4 || math.Abs(nested.Columns[0].Width.Value-2) > 1e-9 {
		t.Errorf("nested columns = %d width %v", len(nested.Columns), nested.Columns[0].Width)
	}
}

func TestStructuralErrors(t *testing.T) {
	c, _, _ := newTestConverter(t)

	err := c.Section(newSection(), "<table><thead><tr><th>only head</th></tr></thead></table>")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("table without tbody: got %v", err)
	}

	td := &html.Node{Type: html.ElementNode, Data: "td"}
	if _, err := handleCell(&Scope{opts: &c.opts}, td, HolderPoint{newSection()}); !errors.Is(err, ErrMalformed) {
		t.Errorf("td outside row: got %v", err)
	}
	if _, err := handleRow(&Scope{opts: &c.opts}, td, CellPoint{&document.Cell{}}); !errors.Is(err, ErrMalformed) {
		t.Errorf("tr outside table: got %v", err)
	}

	tbl := &document.Table{}
	tbl.AddColumn(document.Cm(1))
	row := &html.Node{Type: html.ElementNode, Data: "tr"}
	for range 2 {
		row.AppendChild(&html.Node{Type: html.ElementNode, Data: "td"})
	}
	if _, err := handleCell(&Scope{opts: &c.opts}, row.LastChild, RowPoint{tbl.AddRow()}); !errors.Is(err, ErrMalformed) {
		t.Errorf("extra cell: got %v", err)
	}

	p := document.NewParagraph()
	if err := c.Paragraph(p, "<table><tr><td>x</td></tr></table>"); !errors.Is(err, ErrMalformed) {
		t.Errorf("table in detached paragraph: got %v", err)
	}
}

func TestTableAndRowPointsAreInert(t *testing.T) {
	c, _, _ := newTestConverter(t)
	tbl := &document.Table{}
	tbl.AddColumn(document.Cm(2))
	if err := c.Convert("<p>x</p><h1>y</h1>loose", TablePoint{tbl}); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(tbl.Rows) != 0 {
		t.Errorf("table should be untouched, rows = %d", len(tbl.Rows))
	}
}
