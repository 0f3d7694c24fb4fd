package layout

import (
	"sort"

	"github.com/tsawler/revtable/model"
)

// Cell is one run placed in a row
type Cell struct {
	Text     string
	X        float64
	EndsLine bool
}

// Row is a set of cells judged to lie on the same visual line
type Row struct {
	// Y is the row key: the Y of the first run that opened the row
	Y float64

	// Cells are sorted left to right
	Cells []Cell
}

// GroupRows partitions runs into rows keyed by Y and returns them top of page
// first, each with cells sorted by ascending X.
//
// With tolerance 0 runs are grouped by exact Y. A positive tolerance
// clusters runs whose Y lies within tolerance of the row key, absorbing the
// sub-point noise some producers leave in baseline coordinates.
//
// Sorting is stable, so runs with equal coordinates keep stream order and
// grouping the same runs twice yields the same rows.
func GroupRows(runs []model.PositionedRun, tolerance float64) []Row {
	if len(runs) == 0 {
		return nil
	}
	if tolerance < 0 {
		tolerance = 0
	}

	// Sort by Y (descending, top to bottom in PDF coords) only
	sorted := make([]model.PositionedRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var rows []Row
	for _, run := range sorted {
		n := len(rows)
		if n > 0 && rows[n-1].Y-run.Y <= tolerance {
			rows[n-1].Cells = append(rows[n-1].Cells, cellFromRun(run))
			continue
		}
		rows = append(rows, Row{Y: run.Y, Cells: []Cell{cellFromRun(run)}})
	}

	for i := range rows {
		cells := rows[i].Cells
		sort.SliceStable(cells, func(a, b int) bool {
			return cells[a].X < cells[b].X
		})
	}

	return rows
}

func cellFromRun(run model.PositionedRun) Cell {
	return Cell{Text: run.Text, X: run.X, EndsLine: run.EndsLine}
}
