package document

// Table is a grid whose column count is fixed by its Columns.
type Table struct {
	Columns []*Column
	Rows    []*Row
	Borders TableBorders
}

func (*Table) block() {}

// TableBorders applies one line width to every cell edge. Zero means none.
type TableBorders struct {
	Width Unit
}

type Column struct {
	Width Unit
}

func (t *Table) AddColumn(width Unit) *Column {
	c := &Column{Width: width}
	t.Columns = append(t.Columns, c)
	return c
}

// AddRow appends a row with one cell per column.
func (t *Table) AddRow() *Row {
	r := &Row{Cells: make([]*Cell, len(t.Columns))}
	for i, col := range t.Columns {
		r.Cells[i] = &Cell{Column: col}
	}
	t.Rows = append(t.Rows, r)
	return r
}

type Row struct {
	Cells []*Cell
}

// Cell is a table cell; it holds blocks like a section does.
type Cell struct {
	Column *Column
	blocks blockList
}

func (c *Cell) AddParagraph() *Paragraph      { return c.blocks.addParagraph(c) }
func (c *Cell) AddTable() *Table              { return c.blocks.addTable() }
func (c *Cell) AddImage(source string) *Image { return c.blocks.addImage(source) }
func (c *Cell) LastParagraph() *Paragraph     { return c.blocks.lastParagraph() }
func (c *Cell) Blocks() []Block               { return c.blocks }
