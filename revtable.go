// Package revtable extracts two-column "current / revised" comparison
// tables from PDF documents.
//
// Basic usage:
//
//	table, warnings, err := revtable.Open("amendment.pdf").Table()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", revtable.FormatWarnings(warnings))
//	}
//	fmt.Print(table.ToMarkdown())
//
// With options:
//
//	table, _, err := revtable.Open("amendment.pdf").
//	    StartMarker("Current").
//	    Split(layout.SplitRowPair).
//	    Table()
//
// The lower-level reader, layout, tables and viewer packages are available
// for finer control.
package revtable

import "github.com/tsawler/revtable/reader"

// Open returns an Extractor for the PDF at filename. The file is read when a
// terminal operation such as Table runs.
//
// Example:
//
//	table, warnings, err := revtable.Open("document.pdf").Table()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns an Extractor for a PDF already in memory.
//
// Example:
//
//	table, _, err := revtable.FromBytes(data).StartMarker("Current").Table()
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:    data,
		options: defaultOptions(),
	}
}

// FromDocument returns an Extractor for a document loaded with the reader
// package. The caller keeps ownership of doc.
func FromDocument(doc *reader.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := revtable.Must(revtable.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTable is a helper that wraps a call to Table() or PageTables() and
// panics if the error is non-nil. It discards warnings and returns just the
// value.
//
// Example:
//
//	table := revtable.MustTable(revtable.Open("document.pdf").Table())
func MustTable[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
