// Package htmltable renders assembled tables as HTML.
//
// The output is a single <table> element built as an html.Node tree and
// serialized with golang.org/x/net/html, so cell text is always escaped.
package htmltable

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/revtable/model"
)

// Options controls the rendered markup
type Options struct {
	// Headers are the column titles (default: "Current", "Revised")
	Headers []string

	// Class is set on the table element when not empty
	Class string
}

// DefaultOptions returns the default column titles and no class
func DefaultOptions() Options {
	return Options{Headers: []string{"Current", "Revised"}}
}

// Render writes table as a two-column HTML table with default options.
func Render(w io.Writer, table model.LogicalTable) error {
	return RenderWithOptions(w, table, DefaultOptions())
}

// RenderWithOptions writes table as a two-column HTML table. Shorter
// columns are padded with empty cells.
func RenderWithOptions(w io.Writer, table model.LogicalTable, opts Options) error {
	headers := opts.Headers
	if len(headers) == 0 {
		headers = DefaultOptions().Headers
	}

	rows := make([][]string, 0, table.RowCount())
	for _, r := range table.Rows() {
		rows = append(rows, []string{r[0], r[1]})
	}
	return write(w, buildTable(headers, rows, 2, opts.Class))
}

// RenderRows writes recognized rows as an HTML table without a header.
// Rows shorter than the widest row are padded with empty cells.
func RenderRows(w io.Writer, rows model.RecognizedRows) error {
	return write(w, buildTable(nil, rows, rows.Width(), ""))
}

func write(w io.Writer, n *html.Node) error {
	if err := html.Render(w, n); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func buildTable(headers []string, rows [][]string, width int, class string) *html.Node {
	table := element(atom.Table)
	if class != "" {
		table.Attr = append(table.Attr, html.Attribute{Key: "class", Val: class})
	}

	if len(headers) > 0 {
		thead := element(atom.Thead)
		thead.AppendChild(row(atom.Th, headers, len(headers)))
		table.AppendChild(thead)
	}

	tbody := element(atom.Tbody)
	for _, cells := range rows {
		tbody.AppendChild(row(atom.Td, cells, width))
	}
	table.AppendChild(tbody)

	return table
}

func row(cell atom.Atom, cells []string, width int) *html.Node {
	tr := element(atom.Tr)
	for i := 0; i < width; i++ {
		c := element(cell)
		if i < len(cells) && cells[i] != "" {
			c.AppendChild(&html.Node{Type: html.TextNode, Data: cells[i]})
		}
		tr.AppendChild(c)
	}
	return tr
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
