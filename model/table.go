package model

import (
	"strings"
)

// Side selects one of the two semantic columns of a comparison table.
type Side int

const (
	Left  Side = iota // current text
	Right             // revised text
)

// String returns a string representation of the side
func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Column is an ordered sequence of accumulated lines for one side of a page.
type Column []string

// First returns the first cell, or "" for an empty column.
func (c Column) First() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// PageTable is the reconstructed two-column content of one page.
// Left and Right may have different lengths.
type PageTable struct {
	// Page is the 1-based page number the table came from (0 if unknown)
	Page int

	Left  Column
	Right Column
}

// Len returns the number of display rows, the longer of the two sides.
func (p PageTable) Len() int {
	return max(len(p.Left), len(p.Right))
}

// Empty reports whether neither side has any content.
func (p PageTable) Empty() bool {
	return len(p.Left) == 0 && len(p.Right) == 0
}

// Column returns the requested side.
func (p PageTable) Column(side Side) Column {
	if side == Right {
		return p.Right
	}
	return p.Left
}

// LogicalTable is the cross-page result of table assembly.
type LogicalTable struct {
	LeftColumn  []string `json:"leftColumn"`
	RightColumn []string `json:"rightColumn"`
}

// RowCount returns the number of display rows. It is the max of the two
// column lengths; neither side is ever truncated to the other.
func (t LogicalTable) RowCount() int {
	return max(len(t.LeftColumn), len(t.RightColumn))
}

// Cell returns the cell at row on the given side, or "" if that side is
// shorter than row.
func (t LogicalTable) Cell(row int, side Side) string {
	col := t.LeftColumn
	if side == Right {
		col = t.RightColumn
	}
	if row < 0 || row >= len(col) {
		return ""
	}
	return col[row]
}

// Rows zips both columns into display rows, padding the shorter side.
func (t LogicalTable) Rows() [][2]string {
	n := t.RowCount()
	rows := make([][2]string, n)
	for i := 0; i < n; i++ {
		rows[i] = [2]string{t.Cell(i, Left), t.Cell(i, Right)}
	}
	return rows
}

// Append adds a page's columns in full to the respective sides.
func (t *LogicalTable) Append(page PageTable) {
	t.LeftColumn = append(t.LeftColumn, page.Left...)
	t.RightColumn = append(t.RightColumn, page.Right...)
}

// ToMarkdown converts the table to markdown format. The header row uses the
// given titles, which default to "Current" and "Revised".
func (t LogicalTable) ToMarkdown(titles ...string) string {
	left, right := "Current", "Revised"
	if len(titles) > 0 {
		left = titles[0]
	}
	if len(titles) > 1 {
		right = titles[1]
	}

	var sb strings.Builder
	writeMarkdownRow(&sb, left, right)
	sb.WriteString("|---|---|\n")
	for _, row := range t.Rows() {
		writeMarkdownRow(&sb, row[0], row[1])
	}
	return sb.String()
}

func writeMarkdownRow(sb *strings.Builder, cells ...string) {
	for _, cell := range cells {
		sb.WriteString("| ")
		cell = strings.ReplaceAll(cell, "\n", " ")
		sb.WriteString(strings.ReplaceAll(cell, "|", "\\|"))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")
}

// ToCSV converts the table to CSV format, one padded row per line
func (t LogicalTable) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows() {
		sb.WriteString(csvField(row[0]))
		sb.WriteString(",")
		sb.WriteString(csvField(row[1]))
		sb.WriteString("\n")
	}
	return sb.String()
}

func csvField(text string) string {
	// Escape quotes and wrap in quotes if necessary
	if strings.ContainsAny(text, ",\"\n") {
		return "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
	}
	return text
}

// RecognizedRows is the raster strategy's output: one slice of cells per
// recognized table line, in recognition order.
type RecognizedRows [][]string

// Width returns the largest number of cells in any row.
func (r RecognizedRows) Width() int {
	w := 0
	for _, row := range r {
		w = max(w, len(row))
	}
	return w
}
