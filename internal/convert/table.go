package convert

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/markdoc/internal/document"
	"golang.org/x/net/html"
)

const cellSelector = "td, th"

// tableBorderWidth is the line width of every table edge.
var tableBorderWidth = document.Pt(0.5)

func handleTable(s *Scope, n *html.Node, at Point) (Point, error) {
	columns, err := columnCount(n)
	if err != nil {
		return nil, err
	}

	var holder document.Container
	switch at.(type) {
	case TablePoint, RowPoint:
		return nil, fmt.Errorf("%w: <table> directly inside a table or row", ErrMalformed)
	default:
		holder = containerOf(at)
	}
	if holder == nil {
		return nil, fmt.Errorf("%w: <table> has no block container to attach to", ErrMalformed)
	}

	available := s.opts.DefaultTableWidth
	if cell, ok := holder.(*document.Cell); ok && cell.Column != nil && cell.Column.Width.IsSet() {
		available = cell.Column.Width
	}

	table := holder.AddTable()
	table.Borders.Width = tableBorderWidth
	width := document.Cm(available.Centimeters() / float64(columns))
	for range columns {
		table.AddColumn(width)
	}
	return TablePoint{table}, nil
}

// columnCount counts the cells of the first row in the first tbody.
func columnCount(n *html.Node) (int, error) {
	body := goquery.NewDocumentFromNode(n).ChildrenFiltered("tbody").First()
	if body.Length() == 0 {
		return 0, fmt.Errorf("%w: <table> has no <tbody>", ErrMalformed)
	}
	cells := body.ChildrenFiltered("tr").First().ChildrenFiltered(cellSelector).Length()
	if cells == 0 {
		return 0, fmt.Errorf("%w: first table row has no cells", ErrMalformed)
	}
	return cells, nil
}

func handleRow(s *Scope, n *html.Node, at Point) (Point, error) {
	t, ok := at.(TablePoint)
	if !ok {
		return nil, fmt.Errorf("%w: <tr> outside a table", ErrMalformed)
	}
	return RowPoint{t.Table.AddRow()}, nil
}

func handleCell(s *Scope, n *html.Node, at Point) (Point, error) {
	r, ok := at.(RowPoint)
	if !ok {
		return nil, fmt.Errorf("%w: <%s> outside a table row", ErrMalformed, n.Data)
	}
	idx := goquery.NewDocumentFromNode(n).PrevAllFiltered(cellSelector).Length()
	if idx >= len(r.Row.Cells) {
		return nil, fmt.Errorf("%w: row has more cells than the table's %d columns", ErrMalformed, len(r.Row.Cells))
	}
	return CellPoint{r.Row.Cells[idx]}, nil
}
