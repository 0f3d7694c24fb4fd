package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/tsawler/revtable/layout"
	"github.com/tsawler/revtable/model"
	"github.com/tsawler/revtable/ocr"
	"github.com/tsawler/revtable/tables"
)

// Strategy selects how page content is extracted
type Strategy int

const (
	// StrategyVector uses the document's text runs
	StrategyVector Strategy = iota

	// StrategyOCR recognizes text on the rendered page
	StrategyOCR
)

// String returns a string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyOCR:
		return "ocr"
	default:
		return "vector"
	}
}

// ParseStrategy parses "vector" or "ocr".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vector", "text":
		return StrategyVector, nil
	case "ocr", "raster":
		return StrategyOCR, nil
	default:
		return StrategyVector, fmt.Errorf("unknown strategy %q", s)
	}
}

// Page is the view of a document page the extractors need.
type Page interface {
	Number() int
	Size() (width, height float64)
	Viewport(scale float64, rotation int) model.Viewport
	Render(ctx context.Context, dst draw.Image, vp model.Viewport) error
	TextRuns() ([]model.PositionedRun, error)
}

// Extraction is the content taken from one page. Vector extraction fills
// Table; OCR extraction fills Rows and leaves Table empty.
type Extraction struct {
	Page  int
	Table model.PageTable
	Rows  model.RecognizedRows
}

// PageTextExtractor extracts content from one page at a time.
type PageTextExtractor interface {
	Extract(ctx context.Context, page Page) (Extraction, error)
	Strategy() Strategy
}

// Primer is implemented by extractors that benefit from seeing every page
// before extraction starts.
type Primer interface {
	Prime(ctx context.Context, pages []Page) error
}

// Config holds configuration for extractors
type Config struct {
	// Strategy selects the extractor built by New (default: StrategyVector)
	Strategy Strategy

	// Layout configures vector reconstruction
	Layout layout.Config

	// Furniture configures running header/footer detection during Prime
	Furniture layout.FurnitureConfig

	// DetectFurniture enables running header/footer removal (default: true)
	DetectFurniture bool

	// DocumentThreshold derives one column split for all pages during Prime
	// when Layout has no fixed Threshold (default: true)
	DocumentThreshold bool

	// Engine recognizes text for StrategyOCR; nil means Tesseract
	Engine ocr.Engine

	// Language is the OCR language (default: ocr.DefaultLanguage)
	Language string

	// Scale is the render scale for OCR (default: 1.5)
	Scale float64

	// Upscale enlarges the rendered frame before recognition; values at or
	// below 1 disable it (default: 1)
	Upscale float64

	// Recognized, if set, receives every page's OCR rows in call order
	Recognized *tables.Recognized

	// Logger receives extraction events; nil discards them
	Logger logrus.FieldLogger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Strategy:          StrategyVector,
		Layout:            layout.DefaultConfig(),
		Furniture:         layout.DefaultFurnitureConfig(),
		DetectFurniture:   true,
		DocumentThreshold: true,
		Language:          ocr.DefaultLanguage,
		Scale:             1.5,
		Upscale:           1,
	}
}

// New builds the extractor selected by config.Strategy. For StrategyOCR
// without an Engine it opens a Tesseract client, which fails with
// ocr.ErrOCRNotEnabled unless built with the ocr tag.
func New(config Config) (PageTextExtractor, error) {
	switch config.Strategy {
	case StrategyVector:
		return NewVector(config), nil
	case StrategyOCR:
		return NewRaster(config)
	default:
		return nil, fmt.Errorf("unknown strategy %d", config.Strategy)
	}
}
