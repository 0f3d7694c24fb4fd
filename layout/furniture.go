package layout

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/width"

	"github.com/tsawler/revtable/model"
)

// pageNumberRe matches a bare page stamp: digits with optional dashes and
// spaces around them, such as "3", "- 3 -" or "—12—".
var pageNumberRe = regexp.MustCompile(`^[\s\-‐‑‒–—―]*[0-9]+[\s\-‐‑‒–—―]*$`)

var digitsRe = regexp.MustCompile(`[0-9]+`)

// IsPageNumber reports whether text is a page-number stamp.
// Fullwidth digits and dashes are folded to their ASCII forms first.
func IsPageNumber(text string) bool {
	return pageNumberRe.MatchString(width.Fold.String(text))
}

// normalizeForComparison folds width and replaces digit sequences with a
// placeholder, so "Page 3" and "Page 4" compare equal
func normalizeForComparison(text string) string {
	text = strings.TrimSpace(width.Fold.String(text))
	return digitsRe.ReplaceAllString(text, "#")
}

// FurnitureConfig holds configuration for running header/footer detection
type FurnitureConfig struct {
	// HeaderRegionHeight is the height from top of page to consider as header zone
	// Default: 72 points (1 inch)
	HeaderRegionHeight float64

	// FooterRegionHeight is the height from bottom of page to consider as footer zone
	// Default: 72 points (1 inch)
	FooterRegionHeight float64

	// MinOccurrenceRatio is the minimum fraction of pages a text must appear on
	// to be considered a header/footer (0.0 to 1.0)
	// Default: 0.5 (50% of pages)
	MinOccurrenceRatio float64

	// MinPages is the minimum number of pages required for detection
	// Default: 2
	MinPages int

	// Protect lists texts, such as a table start marker, that are never
	// furniture. Runs sharing a row with a protected run are kept as well,
	// so a repeated column-header row survives.
	Protect []string
}

// DefaultFurnitureConfig returns sensible default configuration
func DefaultFurnitureConfig() FurnitureConfig {
	return FurnitureConfig{
		HeaderRegionHeight: 72.0,
		FooterRegionHeight: 72.0,
		MinOccurrenceRatio: 0.5,
		MinPages:           2,
	}
}

// PageRuns represents the runs of a single page with its size in user space
type PageRuns struct {
	Page   int
	Width  float64
	Height float64
	Runs   []model.PositionedRun
}

// Furniture is the set of running header and footer texts found in a
// document. A nil *Furniture matches nothing.
type Furniture struct {
	config FurnitureConfig
	texts  map[string]bool
}

// DetectFurniture finds text that appears in the header or footer band of
// at least MinOccurrenceRatio of the pages (and never fewer than two).
func DetectFurniture(pages []PageRuns, config FurnitureConfig) *Furniture {
	f := &Furniture{config: config, texts: make(map[string]bool)}
	if len(pages) < config.MinPages || len(pages) < 2 {
		return f
	}

	// Collect pages on which each normalized text appears in a band
	seen := make(map[string]map[int]bool)
	for i, page := range pages {
		protected := f.protectedRows(page.Runs)
		for _, run := range page.Runs {
			if !f.inBand(run, page.Height) || onProtectedRow(run, protected) {
				continue
			}
			key := normalizeForComparison(run.Text)
			// Skip very short text that isn't a page number
			if len([]rune(key)) <= 2 && key != "#" {
				continue
			}
			if seen[key] == nil {
				seen[key] = make(map[int]bool)
			}
			seen[key][i] = true
		}
	}

	minOccurrences := int(float64(len(pages)) * config.MinOccurrenceRatio)
	if minOccurrences < 2 {
		minOccurrences = 2
	}
	for key, onPages := range seen {
		if len(onPages) >= minOccurrences {
			f.texts[key] = true
		}
	}

	return f
}

// protectedRows returns the Y of every run whose trimmed text is protected
func (f *Furniture) protectedRows(runs []model.PositionedRun) []float64 {
	if len(f.config.Protect) == 0 {
		return nil
	}
	var ys []float64
	for _, run := range runs {
		text := strings.TrimSpace(run.Text)
		for _, p := range f.config.Protect {
			if p = strings.TrimSpace(p); p != "" && text == p {
				ys = append(ys, run.Y)
				break
			}
		}
	}
	return ys
}

func onProtectedRow(run model.PositionedRun, ys []float64) bool {
	for _, y := range ys {
		if math.Abs(run.Y-y) <= protectedRowTolerance {
			return true
		}
	}
	return false
}

// protectedRowTolerance is the Y distance within which a run shares a row
// with a protected run
const protectedRowTolerance = 1.0

// inBand reports whether a run sits in the header or footer band of a page
// of the given height. Unknown heights never match.
func (f *Furniture) inBand(run model.PositionedRun, pageHeight float64) bool {
	if pageHeight <= 0 {
		return false
	}
	distFromTop := pageHeight - run.Y
	distFromBottom := run.Y
	return distFromTop < f.config.HeaderRegionHeight || distFromBottom < f.config.FooterRegionHeight
}

// Matches reports whether run is running furniture on a page of the given height.
func (f *Furniture) Matches(run model.PositionedRun, pageHeight float64) bool {
	if f == nil || len(f.texts) == 0 {
		return false
	}
	if !f.inBand(run, pageHeight) {
		return false
	}
	return f.texts[normalizeForComparison(run.Text)]
}

// Texts returns the detected furniture texts in normalized form, sorted.
func (f *Furniture) Texts() []string {
	if f == nil {
		return nil
	}
	texts := make([]string, 0, len(f.texts))
	for t := range f.texts {
		texts = append(texts, t)
	}
	sort.Strings(texts)
	return texts
}

// Len returns the number of distinct furniture texts.
func (f *Furniture) Len() int {
	if f == nil {
		return 0
	}
	return len(f.texts)
}
