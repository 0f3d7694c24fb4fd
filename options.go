package revtable

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/revtable/extract"
	"github.com/tsawler/revtable/layout"
	"github.com/tsawler/revtable/ocr"
)

// ExtractOptions holds configuration for table extraction.
type ExtractOptions struct {
	ctx context.Context

	// Table assembly
	startMarker string

	// Strategy selection
	strategy extract.Strategy
	engine   ocr.Engine
	language string
	upscale  float64

	// Vector reconstruction
	split           layout.SplitMode
	threshold       float64
	thresholdRatio  float64
	rowTolerance    float64
	keepPageNumbers bool
	keepFurniture   bool

	// Rendering
	scale    float64
	rotation int

	logger *logrus.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	lc := layout.DefaultConfig()
	return ExtractOptions{
		ctx:          context.Background(),
		strategy:     extract.StrategyVector,
		language:     ocr.DefaultLanguage,
		upscale:      1,
		split:        lc.Split,
		rowTolerance: lc.RowTolerance,
		scale:        1.5,
	}
}

// clone creates a copy of ExtractOptions. There are no reference fields to
// deep copy beyond shared, read-only values.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}

// extractConfig builds the per-page extraction configuration
func (o ExtractOptions) extractConfig() extract.Config {
	c := extract.DefaultConfig()
	c.Strategy = o.strategy
	c.Engine = o.engine
	c.Language = o.language
	c.Upscale = o.upscale
	c.Scale = o.scale
	c.DetectFurniture = !o.keepFurniture
	c.Layout.Split = o.split
	c.Layout.Threshold = o.threshold
	c.Layout.ThresholdRatio = o.thresholdRatio
	c.Layout.RowTolerance = o.rowTolerance
	c.Layout.KeepPageNumbers = o.keepPageNumbers
	return c
}
