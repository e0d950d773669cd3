package export

// Merge spans a block of cells starting at (Row, Column). Rows and columns are zero-based and relative to the
// sheet body, headers excluded
type Merge struct {
	Row     int
	Column  int
	Rows    int
	Columns int
}

// Sheet is a table whose spanned cells hold their value in the top-left cell and are empty elsewhere
type Sheet struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]string
	Merges  []Merge
}

func newSheet(name, title string, headers []string) *Sheet {
	return &Sheet{
		Name:    name,
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
		Merges:  make([]Merge, 0),
	}
}

// appendRow pads or truncates the values to the header width and returns the row index
func (sheet *Sheet) appendRow(values ...string) int {
	row := make([]string, len(sheet.Headers))
	copy(row, values)
	sheet.Rows = append(sheet.Rows, row)
	return len(sheet.Rows) - 1
}

// merge ignores single-cell blocks and clears the covered cells
func (sheet *Sheet) merge(row, column, rows, columns int) {
	if rows <= 1 && columns <= 1 {
		return
	}
	for r := row; r < row+rows; r++ {
		for c := column; c < column+columns; c++ {
			if r != row || c != column {
				sheet.Rows[r][c] = ""
			}
		}
	}
	sheet.Merges = append(sheet.Merges, Merge{Row: row, Column: column, Rows: rows, Columns: columns})
}

// spans maps every cell of the sheet to the merge covering it, keyed by (row, column)
func (sheet *Sheet) spans() map[[2]int]Merge {
	spans := make(map[[2]int]Merge)
	for _, merge := range sheet.Merges {
		for r := merge.Row; r < merge.Row+merge.Rows; r++ {
			for c := merge.Column; c < merge.Column+merge.Columns; c++ {
				spans[[2]int{r, c}] = merge
			}
		}
	}
	return spans
}
