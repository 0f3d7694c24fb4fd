package viewer

import (
	"context"

	"github.com/tsawler/revtable/extract"
	"github.com/tsawler/revtable/reader"
)

// Document is a loaded document.
type Document interface {
	NumPages() int
	Page(n int) (extract.Page, error)
}

// Loader parses document bytes.
type Loader interface {
	Load(ctx context.Context, data []byte) (Document, error)
}

// LoaderFunc adapts an ordinary function to the Loader interface.
type LoaderFunc func(ctx context.Context, data []byte) (Document, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, data []byte) (Document, error) {
	return f(ctx, data)
}

// ReaderLoader loads PDFs with the reader package.
type ReaderLoader struct {
	Config reader.Config
}

// Load parses data as a PDF.
func (l ReaderLoader) Load(ctx context.Context, data []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := reader.LoadWithConfig(data, l.Config)
	if err != nil {
		return nil, err
	}
	return readerDocument{doc}, nil
}

// FromReader adapts a document loaded with the reader package.
func FromReader(doc *reader.Document) Document {
	return readerDocument{doc}
}

type readerDocument struct {
	*reader.Document
}

func (d readerDocument) Page(n int) (extract.Page, error) {
	p, err := d.Document.Page(n)
	if err != nil {
		return nil, err
	}
	return p, nil
}
