// Package layout reconstructs two-column comparison tables from positioned
// text runs.
//
// This package turns the unordered runs of a page into a [model.PageTable]
// whose left column holds the "current text" side and whose right column
// holds the "revised text" side.
//
// # Vector Text
//
// The [Reconstructor] works from exact run geometry:
//
//	r := layout.NewReconstructor()
//	table := r.Reconstruct(layout.PageRuns{Page: 1, Width: 595, Height: 842, Runs: runs})
//
// Reconstruction drops page-number stamps and known running headers, groups
// runs into rows by Y ([GroupRows]), orders rows top to bottom and cells left
// to right, and assigns each run to a side. Two assignment modes exist:
//
//   - [SplitThreshold] - runs left of the split point feed the left buffer,
//     the rest feed the right; a buffer is flushed into its column when a run
//     ends a line
//   - [SplitRowPair] - every row yields exactly one left and one right cell
//
// The split point is configurable, derived from the page width, or taken as
// the midpoint of the observed horizontal extent.
//
// # Page Furniture
//
// [IsPageNumber] recognizes stamps such as "- 3 -". [DetectFurniture] finds
// text that repeats in the header or footer band of many pages so the
// reconstructor can skip it.
//
// # Recognized Text
//
// Without geometry, [RecognizedRows] applies the numbered-row heuristic to
// OCR output: keep non-blank lines that start with a digit and split each on
// whitespace.
package layout
