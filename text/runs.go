package text

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/revtable/model"
)

// Config holds configuration for run preparation
type Config struct {
	// BaselineTolerance is the maximum Y difference for two runs to be on the
	// same line (default: 1.0 points)
	BaselineTolerance float64

	// SpaceRatio is the gap, as a fraction of font size, at or above which a
	// space is inserted between merged runs (default: 0.125, half of the
	// usual 25% space width)
	SpaceRatio float64

	// SplitRatio is the gap, as a fraction of font size, above which two runs
	// on the same baseline stay separate (default: 1.5)
	SplitRatio float64

	// DefaultFontSize is used when a run reports no font size (default: 10)
	DefaultFontSize float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		BaselineTolerance: 1.0,
		SpaceRatio:        0.125,
		SplitRatio:        1.5,
		DefaultFontSize:   10,
	}
}

// Prepare normalizes, merges, and marks line ends, in that order.
// The input slice is not modified.
func Prepare(runs []model.PositionedRun, config Config) []model.PositionedRun {
	out := make([]model.PositionedRun, 0, len(runs))
	for _, r := range runs {
		r.Text = Normalize(r.Text)
		out = append(out, r)
	}
	out = MergeRuns(out, config)
	return MarkLineEnds(out, config)
}

// Normalize composes s to NFC and replaces non-breaking and other exotic
// space characters with a plain space.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0', '\u2007', '\u202f', '\u3000':
			return ' '
		case '\u200b', '\ufeff':
			return -1
		}
		return r
	}, s)
}

// MergeRuns joins consecutive runs in stream order that sit on the same
// baseline and are close enough horizontally. Stream order is preserved;
// runs are never reordered here.
func MergeRuns(runs []model.PositionedRun, config Config) []model.PositionedRun {
	if len(runs) == 0 {
		return nil
	}

	merged := make([]model.PositionedRun, 0, len(runs))
	current := runs[0]

	for _, next := range runs[1:] {
		if joinable(current, next, config) {
			gap := next.X - current.Right()
			if shouldInsertSpace(current, next, gap, config) {
				current.Text += " "
			}
			current.Text += next.Text
			current.Width = math.Max(current.Width, next.Right()-current.X)
			current.EndsLine = next.EndsLine
			continue
		}
		merged = append(merged, current)
		current = next
	}

	return append(merged, current)
}

// joinable reports whether next continues the word or phrase in current
func joinable(current, next model.PositionedRun, config Config) bool {
	if current.EndsLine {
		return false
	}
	if math.Abs(current.Y-next.Y) > config.BaselineTolerance {
		return false
	}
	gap := next.X - current.Right()
	size := fontSize(current, config)
	// Overlap further back than one em means the stream jumped left
	if gap < -size {
		return false
	}
	return gap <= size*config.SplitRatio
}

// shouldInsertSpace determines if a space should be inserted between two runs
// based on the horizontal gap and font size
func shouldInsertSpace(current, next model.PositionedRun, gap float64, config Config) bool {
	if strings.HasSuffix(current.Text, " ") || strings.HasPrefix(next.Text, " ") {
		return false
	}
	// If runs overlap or are very close, no space
	if gap <= 0 {
		return false
	}
	return gap >= fontSize(current, config)*config.SpaceRatio
}

func fontSize(r model.PositionedRun, config Config) float64 {
	if r.FontSize > 0 {
		return r.FontSize
	}
	if config.DefaultFontSize > 0 {
		return config.DefaultFontSize
	}
	return 10
}

// MarkLineEnds sets EndsLine on every run that is the last of its visual
// line segment in stream order: the next run starts a new baseline, jumps
// back to the left, or starts past a column-sized gap. The final run always
// ends a line, and runs that already end a line keep the flag.
func MarkLineEnds(runs []model.PositionedRun, config Config) []model.PositionedRun {
	out := make([]model.PositionedRun, len(runs))
	copy(out, runs)

	for i := range out {
		if i == len(out)-1 {
			out[i].EndsLine = true
			break
		}
		if math.Abs(out[i].Y-out[i+1].Y) > config.BaselineTolerance {
			out[i].EndsLine = true
			continue
		}
		gap := out[i+1].X - out[i].Right()
		size := fontSize(out[i], config)
		if gap < -size || gap > size*config.SplitRatio {
			out[i].EndsLine = true
		}
	}
	return out
}
