package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/tsawler/revtable/model"
)

// SplitMode selects how runs are assigned to the left or right column
type SplitMode int

const (
	// SplitThreshold accumulates runs into per-side buffers by X and flushes
	// a buffer when a run ends a line
	SplitThreshold SplitMode = iota

	// SplitRowPair emits one left and one right cell for every row
	SplitRowPair
)

// String returns a string representation of the split mode
func (m SplitMode) String() string {
	switch m {
	case SplitRowPair:
		return "rowpair"
	default:
		return "threshold"
	}
}

// ParseSplitMode parses "threshold" or "rowpair".
func ParseSplitMode(s string) (SplitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "threshold":
		return SplitThreshold, nil
	case "rowpair", "row-pair":
		return SplitRowPair, nil
	default:
		return SplitThreshold, fmt.Errorf("unknown split mode %q", s)
	}
}

// Config holds configuration for vector-text reconstruction
type Config struct {
	// RowTolerance is the Y distance within which runs share a row.
	// 0 groups by exact Y (default: 0.5 points)
	RowTolerance float64

	// Split selects the column assignment mode (default: SplitThreshold)
	Split SplitMode

	// Threshold is a fixed X split point in user space; 0 means derive it
	Threshold float64

	// ThresholdRatio derives the split point as a fraction of page width
	// when Threshold is 0; 0 means use the midpoint of the observed extent
	ThresholdRatio float64

	// KeepPageNumbers disables page-number stamp suppression
	KeepPageNumbers bool
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		RowTolerance: 0.5,
		Split:        SplitThreshold,
	}
}

// Reconstructor builds a PageTable from the runs of one page
type Reconstructor struct {
	config    Config
	furniture *Furniture
}

// NewReconstructor creates a new reconstructor with default configuration
func NewReconstructor() *Reconstructor {
	return &Reconstructor{
		config: DefaultConfig(),
	}
}

// NewReconstructorWithConfig creates a reconstructor with custom configuration
func NewReconstructorWithConfig(config Config) *Reconstructor {
	return &Reconstructor{
		config: config,
	}
}

// Config returns the configuration in use.
func (r *Reconstructor) Config() Config {
	return r.config
}

// WithFurniture returns a copy of r that also drops the given running
// headers and footers.
func (r *Reconstructor) WithFurniture(f *Furniture) *Reconstructor {
	return &Reconstructor{config: r.config, furniture: f}
}

// Reconstruct converts the runs of one page into a two-column PageTable.
// A page with no usable runs yields an empty PageTable. The input is never
// modified, so reconstructing the same runs twice gives the same result.
func (r *Reconstructor) Reconstruct(page PageRuns) model.PageTable {
	table := model.PageTable{Page: page.Page}

	runs := r.filterNoise(page)
	if len(runs) == 0 {
		return table
	}

	rows := GroupRows(runs, r.config.RowTolerance)
	threshold := r.splitPoint(runs, page.Width)

	switch r.config.Split {
	case SplitRowPair:
		table.Left, table.Right = splitRowPairs(rows, threshold)
	default:
		table.Left, table.Right = splitByThreshold(rows, threshold)
	}

	return table
}

// filterNoise drops blank runs, page-number stamps, and running furniture
func (r *Reconstructor) filterNoise(page PageRuns) []model.PositionedRun {
	kept := make([]model.PositionedRun, 0, len(page.Runs))
	for _, run := range page.Runs {
		if run.IsBlank() {
			// Blank runs still close a line
			if run.EndsLine {
				kept = append(kept, run)
			}
			continue
		}
		if !r.config.KeepPageNumbers && IsPageNumber(run.Text) {
			continue
		}
		if r.furniture.Matches(run, page.Height) {
			continue
		}
		kept = append(kept, run)
	}

	for _, run := range kept {
		if !run.IsBlank() {
			return kept
		}
	}
	return nil
}

// splitPoint returns the X coordinate separating the two columns
func (r *Reconstructor) splitPoint(runs []model.PositionedRun, pageWidth float64) float64 {
	if r.config.Threshold > 0 {
		return r.config.Threshold
	}
	if pageWidth > 0 && r.config.ThresholdRatio > 0 {
		return pageWidth * r.config.ThresholdRatio
	}
	return ExtentMidpoint(runs)
}

// ExtentMidpoint returns the midpoint of the horizontal extent covered by
// the non-blank runs. When the extent is degenerate every run is left of
// the result, so a single-column page stays on the left side.
func ExtentMidpoint(runs []model.PositionedRun) float64 {
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, run := range runs {
		if run.IsBlank() {
			continue
		}
		minX = math.Min(minX, run.X)
		maxX = math.Max(maxX, math.Max(run.X, run.Right()))
	}
	if math.IsInf(minX, 1) || maxX <= minX {
		return math.Inf(1)
	}
	return (minX + maxX) / 2
}

// sideBuffer accumulates run text for one column
type sideBuffer struct {
	sb strings.Builder
}

func (b *sideBuffer) add(text string) {
	if b.sb.Len() > 0 && !strings.HasSuffix(b.sb.String(), " ") && !strings.HasPrefix(text, " ") {
		b.sb.WriteByte(' ')
	}
	b.sb.WriteString(text)
}

// flush appends the buffer to col if it holds visible text and resets it
func (b *sideBuffer) flush(col model.Column) model.Column {
	text := strings.TrimSpace(b.sb.String())
	b.sb.Reset()
	if text == "" {
		return col
	}
	return append(col, text)
}

// splitByThreshold walks rows top to bottom and cells left to right,
// feeding each run to the buffer of its side. A side's buffer is flushed
// into its column when one of its runs ends a line; anything still buffered
// at the end of the page is flushed too.
func splitByThreshold(rows []Row, threshold float64) (model.Column, model.Column) {
	var left, right model.Column
	var lbuf, rbuf sideBuffer

	for _, row := range rows {
		for _, cell := range row.Cells {
			if cell.X < threshold {
				lbuf.add(cell.Text)
				if cell.EndsLine {
					left = lbuf.flush(left)
				}
			} else {
				rbuf.add(cell.Text)
				if cell.EndsLine {
					right = rbuf.flush(right)
				}
			}
		}
	}

	left = lbuf.flush(left)
	right = rbuf.flush(right)
	return left, right
}

// splitRowPairs treats every row as one left/right pair. Cells on the same
// side are joined with a space; a side with no cells yields "".
func splitRowPairs(rows []Row, threshold float64) (model.Column, model.Column) {
	var left, right model.Column

	for _, row := range rows {
		var lbuf, rbuf sideBuffer
		visible := false
		for _, cell := range row.Cells {
			if strings.TrimSpace(cell.Text) == "" {
				continue
			}
			visible = true
			if cell.X < threshold {
				lbuf.add(cell.Text)
			} else {
				rbuf.add(cell.Text)
			}
		}
		if !visible {
			continue
		}
		left = append(left, strings.TrimSpace(lbuf.sb.String()))
		right = append(right, strings.TrimSpace(rbuf.sb.String()))
	}

	return left, right
}

// DocumentSplitPoint returns the extent midpoint over every page, for use as
// a fixed Threshold that stays the same from page to page.
func DocumentSplitPoint(pages []PageRuns) float64 {
	var all []model.PositionedRun
	for _, page := range pages {
		for _, run := range page.Runs {
			if IsPageNumber(run.Text) {
				continue
			}
			all = append(all, run)
		}
	}
	return ExtentMidpoint(all)
}
