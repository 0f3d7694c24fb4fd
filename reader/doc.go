// Package reader loads PDF documents and exposes their pages as positioned
// text runs and rendered images.
//
// Parsing is done by github.com/ledongthuc/pdf. Each [Page] reports its size,
// builds a [model.Viewport] for a scale and rotation, extracts its text runs
// (normalized, merged into words and marked with line ends by the text
// package) and draws itself with the raster package.
//
// # Loading
//
//	doc, err := reader.Open("amendment.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.NumPages())
//
// Use [Load] for documents already in memory. Bytes that are not a readable
// PDF produce an error wrapping [ErrInvalidDocument].
//
// # Pages
//
// Pages are numbered from 1:
//
//	page, err := doc.Page(1)
//	runs, err := page.TextRuns()
//	vp := page.Viewport(1.5, 0)
//	frame := raster.NewFrame(vp)
//	err = page.Render(ctx, frame, vp)
//
// A Page caches its text runs after the first successful extraction and is
// safe for concurrent use.
package reader
