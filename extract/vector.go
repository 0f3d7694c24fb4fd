package extract

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/revtable/internal/logging"
	"github.com/tsawler/revtable/layout"
)

// Vector rebuilds the two-column table from a page's text runs.
type Vector struct {
	config Config
	log    logrus.FieldLogger

	mu            sync.RWMutex
	reconstructor *layout.Reconstructor
}

// NewVector creates a vector-text extractor.
func NewVector(config Config) *Vector {
	return &Vector{
		config:        config,
		log:           logging.OrDiscard(config.Logger),
		reconstructor: layout.NewReconstructorWithConfig(config.Layout),
	}
}

// Strategy returns StrategyVector.
func (v *Vector) Strategy() Strategy {
	return StrategyVector
}

// Prime reads every page once to detect running headers and footers and,
// when enabled, a column split shared by all pages. Pages whose runs cannot
// be read are skipped.
func (v *Vector) Prime(ctx context.Context, pages []Page) error {
	all := make([]layout.PageRuns, 0, len(pages))
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pr, err := pageRuns(p)
		if err != nil {
			v.log.WithField("page", p.Number()).WithError(err).Warn("skipping page while priming")
			continue
		}
		all = append(all, pr)
	}

	config := v.config.Layout
	if v.config.DocumentThreshold && config.Threshold <= 0 && config.ThresholdRatio <= 0 {
		if split := layout.DocumentSplitPoint(all); !math.IsInf(split, 0) {
			config.Threshold = split
		}
	}

	r := layout.NewReconstructorWithConfig(config)
	if v.config.DetectFurniture {
		f := layout.DetectFurniture(all, v.config.Furniture)
		r = r.WithFurniture(f)
		if f.Len() > 0 {
			v.log.WithFields(logrus.Fields{"pages": len(all), "furniture": f.Texts()}).Debug("detected running headers and footers")
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	// A cancelled caller's document may already be superseded
	if err := ctx.Err(); err != nil {
		return err
	}
	v.reconstructor = r
	return nil
}

// Extract reconstructs the page's table. A page with no runs yields an
// empty table.
func (v *Vector) Extract(ctx context.Context, page Page) (Extraction, error) {
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}

	pr, err := pageRuns(page)
	if err != nil {
		return Extraction{Page: page.Number()}, err
	}

	v.mu.RLock()
	r := v.reconstructor
	v.mu.RUnlock()

	table := r.Reconstruct(pr)
	v.log.WithFields(logrus.Fields{
		"page":     pr.Page,
		"strategy": StrategyVector.String(),
		"left":     len(table.Left),
		"right":    len(table.Right),
	}).Debug("page reconstructed")

	return Extraction{Page: pr.Page, Table: table}, nil
}

func pageRuns(page Page) (layout.PageRuns, error) {
	runs, err := page.TextRuns()
	if err != nil {
		return layout.PageRuns{}, fmt.Errorf("failed to read text runs of page %d: %w", page.Number(), err)
	}
	w, h := page.Size()
	return layout.PageRuns{Page: page.Number(), Width: w, Height: h, Runs: runs}, nil
}
