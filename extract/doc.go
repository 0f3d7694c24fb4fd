// Package extract turns one document page into table content.
//
// A [PageTextExtractor] hides which strategy produced the content:
//
//   - [StrategyVector] reads the page's positioned text runs and rebuilds
//     the two-column table with the layout package.
//   - [StrategyOCR] renders the page, recognizes its text with an
//     [ocr.Engine] and keeps the lines that start with a digit.
//
// Pick one with [New]:
//
//	ex, err := extract.New(extract.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	result, err := ex.Extract(ctx, page)
//
// Extractors that implement [Primer] can look at every page before the
// per-page pass, which the vector strategy uses to find running headers and
// footers and a document-wide column split.
package extract
