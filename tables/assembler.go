package tables

import (
	"strings"

	"github.com/tsawler/revtable/model"
)

// Assembler merges page tables in order into one LogicalTable.
// The zero value collects from the first page.
type Assembler struct {
	marker     string
	collecting bool
	pages      int
	table      model.LogicalTable
}

// NewAssembler creates an assembler that starts collecting at the first page
// whose left column begins with marker. An empty or blank marker collects
// from the first page.
func NewAssembler(marker string) *Assembler {
	marker = strings.TrimSpace(marker)
	return &Assembler{
		marker:     marker,
		collecting: marker == "",
	}
}

// Add considers the next page. Pages before the marker contribute nothing;
// the marker page and all later pages are appended in full, whatever the
// lengths of their two columns. Add reports whether the page was collected.
func (a *Assembler) Add(page model.PageTable) bool {
	if !a.collecting && a.isMarkerPage(page) {
		a.collecting = true
	}
	if !a.collecting {
		return false
	}
	a.table.Append(page)
	a.pages++
	return true
}

func (a *Assembler) isMarkerPage(page model.PageTable) bool {
	return a.marker == "" || strings.TrimSpace(page.Left.First()) == a.marker
}

// Collecting reports whether the marker has been seen.
func (a *Assembler) Collecting() bool {
	return a.collecting || a.marker == ""
}

// Pages returns the number of pages collected so far.
func (a *Assembler) Pages() int {
	return a.pages
}

// Table returns a copy of the table assembled so far.
func (a *Assembler) Table() model.LogicalTable {
	return model.LogicalTable{
		LeftColumn:  append([]string(nil), a.table.LeftColumn...),
		RightColumn: append([]string(nil), a.table.RightColumn...),
	}
}

// Assemble scans pages in order and returns the logical table starting at
// the first page whose left column begins with startMarker.
func Assemble(pages []model.PageTable, startMarker string) model.LogicalTable {
	a := NewAssembler(startMarker)
	for _, page := range pages {
		a.Add(page)
	}
	return a.Table()
}
