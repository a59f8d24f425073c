package db

import (
	"fmt"
	"io"
	"strings"
)

// defaultMaxCellWidth caps rendered cell width so wide text columns
// (e.g. film opening crawls) do not blow out the terminal.
const defaultMaxCellWidth = 60

// SimpleTable provides basic ASCII table formatting without external
// dependencies. Cells longer than the configured maximum width are
// truncated with an ellipsis.
type SimpleTable struct {
	writer       io.Writer
	headers      []string
	rows         [][]string
	maxCellWidth int
}

// NewTable creates a new table writer
func NewTable(w io.Writer) *SimpleTable {
	return &SimpleTable{
		writer:       w,
		rows:         make([][]string, 0),
		maxCellWidth: defaultMaxCellWidth,
	}
}

// SetMaxCellWidth overrides the cell truncation width. Zero or negative
// disables truncation.
func (t *SimpleTable) SetMaxCellWidth(w int) {
	t.maxCellWidth = w
}

// Header sets the table headers
func (t *SimpleTable) Header(headers []string) {
	t.headers = headers
}

// Row adds a single row
func (t *SimpleTable) Row(row []string) {
	t.rows = append(t.rows, row)
}

// Bulk adds multiple rows
func (t *SimpleTable) Bulk(rows [][]string) {
	t.rows = append(t.rows, rows...)
}

// Render outputs the formatted table
func (t *SimpleTable) Render() {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return
	}

	colWidths := t.calculateWidths()
	separator := t.buildSeparator(colWidths)

	fmt.Fprintln(t.writer, separator)
	if len(t.headers) > 0 {
		fmt.Fprintln(t.writer, t.formatRow(t.headers, colWidths))
		fmt.Fprintln(t.writer, separator)
	}
	for _, row := range t.rows {
		fmt.Fprintln(t.writer, t.formatRow(row, colWidths))
	}
	fmt.Fprintln(t.writer, separator)
}

// clip truncates a cell to the maximum width, appending "..." when
// content was cut.
func (t *SimpleTable) clip(cell string) string {
	cell = strings.ReplaceAll(cell, "\n", " ")
	if t.maxCellWidth <= 0 || len(cell) <= t.maxCellWidth {
		return cell
	}
	if t.maxCellWidth <= 3 {
		return cell[:t.maxCellWidth]
	}
	return cell[:t.maxCellWidth-3] + "..."
}

// calculateWidths determines the width needed for each column
func (t *SimpleTable) calculateWidths() []int {
	numCols := len(t.headers)
	for _, row := range t.rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	widths := make([]int, numCols)

	for i, h := range t.headers {
		if w := len(t.clip(h)); w > widths[i] {
			widths[i] = w
		}
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < numCols {
				if w := len(t.clip(cell)); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	// Minimum width of 1
	for i := range widths {
		if widths[i] < 1 {
			widths[i] = 1
		}
	}

	return widths
}

// buildSeparator creates the horizontal line
func (t *SimpleTable) buildSeparator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	return "+" + strings.Join(parts, "+") + "+"
}

// formatRow formats a single row with proper padding
func (t *SimpleTable) formatRow(row []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = t.clip(row[i])
		}
		parts[i] = " " + cell + strings.Repeat(" ", w-len(cell)+1)
	}
	return "|" + strings.Join(parts, "|") + "|"
}
