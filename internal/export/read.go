package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// Parse reads a .docx file held in memory.
func Parse(data []byte) (*docx.Docx, error) {
	f, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	return f, nil
}

// Text returns the plain text of f, one line per non-empty paragraph.
// Table cells are visited row by row.
func Text(f *docx.Docx) string {
	var lines []string
	for _, item := range f.Document.Body.Items {
		switch item := item.(type) {
		case *docx.Paragraph:
			lines = appendLine(lines, paragraphText(item))
		case *docx.Table:
			lines = tableText(lines, item)
		}
	}
	return strings.Join(lines, "\n")
}

func tableText(lines []string, t *docx.Table) []string {
	for _, row := range t.TableRows {
		for _, cell := range row.TableCells {
			for _, p := range cell.Paragraphs {
				lines = appendLine(lines, paragraphText(p))
			}
			for _, nested := range cell.Tables {
				lines = tableText(lines, nested)
			}
		}
	}
	return lines
}

func appendLine(lines []string, s string) []string {
	if s == "" {
		return lines
	}
	return append(lines, s)
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			runText(&buf, c)
		case *docx.Hyperlink:
			buf.WriteString(c.Run.InstrText)
		}
	}
	return strings.TrimSpace(buf.String())
}

func runText(buf *strings.Builder, run *docx.Run) {
	for _, rc := range run.Children {
		switch c := rc.(type) {
		case *docx.Text:
			buf.WriteString(c.Text)
		case *docx.BarterRabbet:
			buf.WriteByte(' ')
		}
	}
}
