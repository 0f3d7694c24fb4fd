// Package model defines the data structures shared by every stage of table
// reconstruction.
//
// A page's raw input is a slice of [PositionedRun] values. The layout engine
// folds those runs into a [PageTable], a pair of [Column] values holding the
// "current text" (left) and "revised text" (right) sides of the page. The
// table assembler then concatenates page tables into one [LogicalTable].
//
// # Uneven columns
//
// The two sides of a page or of the logical table may have different
// lengths. Nothing in this package truncates either side. Display code uses
// [LogicalTable.RowCount] and [LogicalTable.Cell], which pad the shorter side
// with empty strings:
//
//	for i := 0; i < table.RowCount(); i++ {
//	    fmt.Println(table.Cell(i, model.Left), "|", table.Cell(i, model.Right))
//	}
//
// # OCR output
//
// The raster strategy has no geometry and produces [RecognizedRows]: one
// slice of whitespace-separated cells per recognized table line.
package model
