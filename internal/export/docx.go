// Package export writes documents as .docx files.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/dgallion1/markdoc/internal/document"
	"github.com/fumiama/go-docx"
	"github.com/fumiama/imgsz"
	"github.com/spf13/afero"
)

const (
	emuPerPoint   = 12700
	twipsPerPoint = 20
	// contentWidthEMU is the usable width of an A4 page with default margins.
	contentWidthEMU = docx.A4_EMU_MAX_WIDTH
	ruleLength      = 80
)

// Options configures the writer.
type Options struct {
	// Fs is where non-embedded image sources are read from. Defaults to
	// the OS filesystem.
	Fs     afero.Fs
	Logger *slog.Logger
}

type exporter struct {
	f      *docx.Docx
	styles *document.Styles
	fs     afero.Fs
	log    *slog.Logger
	// numbering holds the last number used per list type.
	numbering map[document.ListType]int
}

// DOCX maps doc onto a go-docx file. Header regions are written before and
// footer regions after the body of each section; Info goes to the core
// properties.
func DOCX(doc *document.Document, opts Options) (*docx.Docx, error) {
	if doc == nil {
		return nil, fmt.Errorf("export: document is nil")
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	styles := doc.Styles
	if styles == nil {
		styles = document.DefaultStyles()
	}

	e := &exporter{
		f:         docx.New().WithDefaultTheme(),
		styles:    styles,
		fs:        opts.Fs,
		log:       opts.Logger.With("component", "export"),
		numbering: make(map[document.ListType]int),
	}
	if err := withInfo(e.f, doc.Info); err != nil {
		return nil, err
	}
	for _, sec := range doc.Sections {
		if hf := sec.Headers.Primary; hf != nil {
			e.blocks(e.f, hf.Blocks())
		}
		e.blocks(e.f, sec.Blocks())
		if hf := sec.Footers.Primary; hf != nil {
			e.blocks(e.f, hf.Blocks())
		}
	}
	e.f.WithA4Page()
	return e.f, nil
}

// Write renders doc as .docx bytes into w.
func Write(w io.Writer, doc *document.Document, opts Options) error {
	f, err := DOCX(doc, opts)
	if err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// paragraphSink is a body or a table cell.
type paragraphSink interface {
	AddParagraph() *docx.Paragraph
}

func (e *exporter) blocks(dst paragraphSink, blocks []document.Block) {
	for _, b := range blocks {
		switch b := b.(type) {
		case *document.Paragraph:
			e.paragraph(dst, b)
		case *document.Table:
			e.table(dst, b)
		case *document.Image:
			e.image(dst.AddParagraph(), b)
		}
	}
}

func (e *exporter) paragraph(dst paragraphSink, p *document.Paragraph) {
	format := document.MergeFormat(e.styles.Resolve(p.Style), p.Format)
	dp := dst.AddParagraph()
	applyParagraphFormat(dp, format)

	if li := format.ListInfo; li != nil && li.ListType != document.ListNone {
		e.text(dp, e.listPrefix(*li), format.Font)
	}
	e.inlines(dp, p.Elements, format.Font)
	if b := format.BottomBorder; b != nil {
		rule := format.Font
		rule.Color = &b.Color
		e.text(dp, strings.Repeat("_", ruleLength), rule)
	}
}

func (e *exporter) listPrefix(li document.ListInfo) string {
	n := 1
	if li.ContinuePreviousList {
		n = e.numbering[li.ListType] + 1
	}
	e.numbering[li.ListType] = n
	if li.ListType == document.NumberList1 {
		return strconv.Itoa(n) + ". "
	}
	return "• "
}

func applyParagraphFormat(dp *docx.Paragraph, f document.ParagraphFormat) {
	switch f.Alignment {
	case document.AlignLeft:
		dp.Justification("start")
	case document.AlignCenter:
		dp.Justification("center")
	case document.AlignRight:
		dp.Justification("end")
	case document.AlignJustify:
		dp.Justification("both")
	}

	if f.LeftIndent.IsSet() || f.FirstLineIndent.IsSet() {
		ind := &docx.Ind{Left: twips(f.LeftIndent)}
		if first := twips(f.FirstLineIndent); first < 0 {
			ind.Hanging = -first
		} else {
			ind.FirstLine = first
		}
		properties(dp).Ind = ind
	}

	if f.SpaceBefore.IsSet() || f.LineSpacing != nil {
		sp := &docx.Spacing{Before: twips(f.SpaceBefore)}
		if f.LineSpacing != nil {
			sp.Line = int(*f.LineSpacing * 240)
			sp.LineRule = "auto"
		}
		properties(dp).Spacing = sp
	}
}

func properties(dp *docx.Paragraph) *docx.ParagraphProperties {
	if dp.Properties == nil {
		dp.Properties = &docx.ParagraphProperties{}
	}
	return dp.Properties
}

func twips(u document.Unit) int {
	return int(math.Round(u.Points() * twipsPerPoint))
}

func (e *exporter) inlines(dp *docx.Paragraph, elems []document.Inline, font document.Font) {
	for _, el := range elems {
		switch el := el.(type) {
		case *document.Text:
			e.text(dp, el.Content, font)
		case *document.FormattedText:
			e.inlines(dp, el.Elements, document.MergeFont(font, el.Font))
		case *document.LineBreak:
			e.text(dp, "\n", font)
		case *document.Hyperlink:
			e.hyperlink(dp, el, font)
		case *document.Image:
			e.image(dp, el)
		}
	}
}

func (e *exporter) text(dp *docx.Paragraph, s string, font document.Font) {
	if s == "" {
		return
	}
	r := dp.AddText(s)
	for _, c := range r.Children {
		if t, ok := c.(*docx.Text); ok && strings.TrimSpace(t.Text) != t.Text {
			t.XMLSpace = "preserve"
		}
	}
	applyFont(r, font)
}

func applyFont(r *docx.Run, font document.Font) {
	if font.Bold {
		r.Bold()
	}
	if font.Italic {
		r.Italic()
	}
	if font.Underline {
		r.Underline("single")
	}
	if font.Color != nil {
		r.Color(font.Color.Hex())
	}
	if font.Size > 0 {
		r.Size(strconv.Itoa(int(font.Size * 2)))
	}
}

func (e *exporter) hyperlink(dp *docx.Paragraph, h *document.Hyperlink, font document.Font) {
	var sb strings.Builder
	linkFont := font
	for _, el := range h.Elements {
		switch el := el.(type) {
		case *document.Text:
			sb.WriteString(el.Content)
		case *document.FormattedText:
			linkFont = document.MergeFont(linkFont, el.Font)
			sb.WriteString(plainText(el.Elements))
		case *document.LineBreak:
			sb.WriteByte(' ')
		}
	}
	text := sb.String()
	if text == "" {
		text = h.Target
	}
	if h.Target == "" {
		e.text(dp, text, linkFont)
		return
	}
	link := dp.AddLink(text, h.Target)
	linkFont.Underline = true
	if linkFont.Color == nil || linkFont.Color == font.Color {
		linkFont.Color = e.styles.Resolve(document.StyleHyperlink).Font.Color
	}
	applyFont(&link.Run, linkFont)
}

func plainText(elems []document.Inline) string {
	p := document.NewParagraph()
	p.Elements = elems
	return strings.ReplaceAll(p.Text(), "\n", " ")
}

func (e *exporter) table(dst paragraphSink, t *document.Table) {
	if len(t.Columns) == 0 {
		return
	}
	widths := make([]int64, len(t.Columns))
	var total int64
	for i, col := range t.Columns {
		widths[i] = int64(twips(col.Width))
		total += widths[i]
	}
	tbl := e.f.AddTableTwips(make([]int64, len(t.Rows)), widths, total, nil)
	if cell, ok := dst.(*docx.WTableCell); ok {
		items := e.f.Document.Body.Items
		e.f.Document.Body.Items = items[:len(items)-1]
		cell.Tables = append(cell.Tables, tbl)
	}
	setBorders(tbl, t.Borders.Width)

	for i, row := range t.Rows {
		for j, cell := range row.Cells {
			wc := tbl.TableRows[i].TableCells[j]
			e.blocks(wc, cell.Blocks())
			if len(wc.Paragraphs) == 0 {
				wc.AddParagraph()
			}
		}
	}
}

func setBorders(tbl *docx.Table, width document.Unit) {
	b := tbl.TableProperties.TableBorders
	for _, edge := range []*docx.WTableBorder{b.Top, b.Left, b.Bottom, b.Right, b.InsideH, b.InsideV} {
		if !width.IsSet() || width.Value <= 0 {
			edge.Val = "nil"
			continue
		}
		// w:sz is in eighths of a point.
		edge.Size = int(width.Points() * 8)
	}
}

func (e *exporter) image(dp *docx.Paragraph, img *document.Image) {
	data, err := e.imageData(img)
	if err != nil {
		e.log.Warn("skip image", "source", img.Source, "error", err)
		return
	}

	w, h, ok := imageExtent(img, data)
	if img.Left == document.PositionInline {
		run, err := dp.AddInlineDrawing(data)
		if err != nil {
			e.log.Warn("skip image", "source", img.Source, "error", err)
			return
		}
		if d, isDrawing := run.Children[0].(*docx.Drawing); isDrawing && ok {
			d.Inline.Size(w, h)
		}
		return
	}

	run, err := dp.AddAnchorDrawing(data)
	if err != nil {
		e.log.Warn("skip image", "source", img.Source, "error", err)
		return
	}
	d, isDrawing := run.Children[0].(*docx.Drawing)
	if !isDrawing {
		return
	}
	if ok {
		d.Anchor.Size(w, h)
	}
	if img.Wrap == document.WrapThrough {
		d.Anchor.WrapNone = nil
		d.Anchor.WrapSquare = &docx.WPWrapSquare{WrapText: "bothSides"}
	}
	if img.Left == document.PositionRight {
		d.Anchor.PositionH.PosOffset = max(0, contentWidthEMU-d.Anchor.Extent.CX)
	}
}

func (e *exporter) imageData(img *document.Image) ([]byte, error) {
	if len(img.Data) > 0 {
		return img.Data, nil
	}
	if img.Embedded() {
		return base64.StdEncoding.DecodeString(strings.TrimPrefix(img.Source, document.ImageSourcePrefix))
	}
	return afero.ReadFile(e.fs, img.Source)
}

// imageExtent returns the drawing size in EMU when the image carries an
// explicit width or height; a missing side keeps the aspect ratio.
func imageExtent(img *document.Image, data []byte) (w, h int64, ok bool) {
	if !img.Width.IsSet() && !img.Height.IsSet() {
		return 0, 0, false
	}
	w = int64(math.Round(img.Width.Points() * emuPerPoint))
	h = int64(math.Round(img.Height.Points() * emuPerPoint))
	if w > 0 && h > 0 {
		return w, h, true
	}
	sz, _, err := imgsz.DecodeSize(bytes.NewReader(data))
	if err != nil || sz.Width == 0 || sz.Height == 0 {
		return 0, 0, false
	}
	switch {
	case w > 0:
		h = w * int64(sz.Height) / int64(sz.Width)
	case h > 0:
		w = h * int64(sz.Width) / int64(sz.Height)
	default:
		return 0, 0, false
	}
	return w, h, true
}
