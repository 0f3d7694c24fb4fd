// Package text prepares positioned text runs for layout reconstruction.
//
// Document loaders differ in how they report text. Some emit one run per
// word with an explicit end-of-line flag; others, such as content-stream
// walkers, emit one run per glyph and no line information at all. This
// package brings both to the same shape:
//
//   - [Normalize] applies Unicode NFC composition and folds odd whitespace
//   - [MergeRuns] joins glyph-level runs on the same baseline into words,
//     inserting a space where the horizontal gap is wide enough
//   - [MarkLineEnds] sets EndsLine on the last run of each visual line
//
// [Prepare] runs all three in order with a [Config]:
//
//	runs = text.Prepare(rawRuns, text.DefaultConfig())
package text
