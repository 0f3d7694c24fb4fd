// Package tables assembles per-page comparison tables into one logical table.
//
// # Start Marker
//
// Comparison documents usually open with front matter (cover page, bill
// summary) before the table of interest. The assembler skips pages until one
// whose left column begins with the configured start marker, then appends
// that page and every later page in full:
//
//	table := tables.Assemble(pageTables, "현행")
//
// An empty marker collects from the first page.
//
// # Incremental Use
//
// [Assembler] exposes the same rule one page at a time, for callers that
// produce pages as they go:
//
//	a := tables.NewAssembler(marker)
//	for _, p := range pages {
//	    a.Add(p)
//	}
//	table := a.Table()
//
// # Recognized Rows
//
// [Recognized] accumulates the raster strategy's rows across every page
// processed, in the order pages complete.
package tables
