package layout

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/tsawler/revtable/model"
)

// RecognizedRows applies the numbered-row heuristic to recognized text.
// The text is split into lines on "\n"; blank lines are dropped, as are
// lines that do not begin with a decimal digit, since table rows in the
// target documents are numbered. Each kept line is split on runs of
// whitespace into cells.
func RecognizedRows(text string) model.RecognizedRows {
	var rows model.RecognizedRows
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !startsWithDigit(line) {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	return rows
}

// startsWithDigit reports whether the first rune of line is 0-9, after
// folding fullwidth digits. Leading whitespace does not count as a digit.
func startsWithDigit(line string) bool {
	for _, r := range width.Fold.String(line) {
		return r >= '0' && r <= '9'
	}
	return false
}
