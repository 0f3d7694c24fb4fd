package revtable

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/revtable/extract"
	"github.com/tsawler/revtable/internal/logging"
	"github.com/tsawler/revtable/layout"
	"github.com/tsawler/revtable/model"
	"github.com/tsawler/revtable/ocr"
	"github.com/tsawler/revtable/reader"
	"github.com/tsawler/revtable/render"
	"github.com/tsawler/revtable/viewer"
)

// Extractor provides a fluent interface for extracting comparison tables.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source, exactly one is set
	filename string
	data     []byte
	doc      *reader.Document

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		data:     e.data,
		doc:      e.doc,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Context sets the context used by terminal operations.
func (e *Extractor) Context(ctx context.Context) *Extractor {
	newExt := e.clone()
	if ctx == nil {
		newExt.err = errors.New("nil context")
		return newExt
	}
	newExt.options.ctx = ctx
	return newExt
}

// StartMarker sets the text that, as the first left cell of a page, opens
// the table. Pages before it are skipped. Empty collects every page.
//
// Example:
//
//	table, _, err := revtable.Open("doc.pdf").StartMarker("Current").Table()
func (e *Extractor) StartMarker(marker string) *Extractor {
	newExt := e.clone()
	newExt.options.startMarker = marker
	return newExt
}

// Strategy selects vector-text or OCR extraction.
func (e *Extractor) Strategy(s extract.Strategy) *Extractor {
	newExt := e.clone()
	newExt.options.strategy = s
	return newExt
}

// OCR selects the OCR strategy with the given engine. A nil engine uses
// Tesseract, which requires building with -tags ocr.
func (e *Extractor) OCR(engine ocr.Engine) *Extractor {
	newExt := e.clone()
	newExt.options.strategy = extract.StrategyOCR
	newExt.options.engine = engine
	return newExt
}

// Language sets the OCR language, e.g. "kor" or "kor+eng".
func (e *Extractor) Language(lang string) *Extractor {
	newExt := e.clone()
	newExt.options.language = lang
	return newExt
}

// Upscale enlarges rendered pages by factor before OCR.
func (e *Extractor) Upscale(factor float64) *Extractor {
	newExt := e.clone()
	newExt.options.upscale = factor
	return newExt
}

// Split selects how runs are assigned to the left and right columns.
//
// Example:
//
//	table, _, err := revtable.Open("doc.pdf").Split(layout.SplitRowPair).Table()
func (e *Extractor) Split(mode layout.SplitMode) *Extractor {
	newExt := e.clone()
	newExt.options.split = mode
	return newExt
}

// Threshold fixes the column split at x points from the left page edge.
func (e *Extractor) Threshold(x float64) *Extractor {
	newExt := e.clone()
	if x < 0 {
		newExt.err = fmt.Errorf("threshold must not be negative: %v", x)
		return newExt
	}
	newExt.options.threshold = x
	return newExt
}

// ThresholdRatio places the column split at ratio of the page width.
func (e *Extractor) ThresholdRatio(ratio float64) *Extractor {
	newExt := e.clone()
	if ratio < 0 || ratio > 1 {
		newExt.err = fmt.Errorf("threshold ratio must be within [0, 1]: %v", ratio)
		return newExt
	}
	newExt.options.thresholdRatio = ratio
	return newExt
}

// RowTolerance sets the Y distance within which runs share a row.
// 0 groups by exact Y.
func (e *Extractor) RowTolerance(tolerance float64) *Extractor {
	newExt := e.clone()
	if tolerance < 0 {
		newExt.err = fmt.Errorf("row tolerance must not be negative: %v", tolerance)
		return newExt
	}
	newExt.options.rowTolerance = tolerance
	return newExt
}

// KeepPageNumbers keeps page-number stamps in the output.
func (e *Extractor) KeepPageNumbers() *Extractor {
	newExt := e.clone()
	newExt.options.keepPageNumbers = true
	return newExt
}

// KeepFurniture keeps running headers and footers in the output.
func (e *Extractor) KeepFurniture() *Extractor {
	newExt := e.clone()
	newExt.options.keepFurniture = true
	return newExt
}

// Scale sets the render scale used for page images and OCR.
func (e *Extractor) Scale(scale float64) *Extractor {
	newExt := e.clone()
	if scale <= 0 {
		newExt.err = fmt.Errorf("scale must be positive: %v", scale)
		return newExt
	}
	newExt.options.scale = scale
	return newExt
}

// Rotation adds a clockwise rotation, in degrees, to rendered pages.
func (e *Extractor) Rotation(degrees int) *Extractor {
	newExt := e.clone()
	newExt.options.rotation = degrees
	return newExt
}

// Logger forwards extraction events to l.
func (e *Extractor) Logger(l *logrus.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// ============================================================================
// Terminal Methods
// ============================================================================

// PageCount returns the number of pages in the document.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	doc, err := e.document()
	if err != nil {
		return 0, err
	}
	return doc.NumPages(), nil
}

// Table extracts and assembles the comparison table.
//
// Example:
//
//	table, warnings, err := revtable.Open("doc.pdf").StartMarker("Current").Table()
func (e *Extractor) Table() (model.LogicalTable, []Warning, error) {
	v, hook, err := e.run()
	if err != nil {
		return model.LogicalTable{}, nil, err
	}
	defer v.Close()

	table := v.Table()
	if e.options.strategy == extract.StrategyVector && table.RowCount() == 0 && e.options.startMarker != "" {
		hook.add(Warning{Message: fmt.Sprintf("start marker %q not found", e.options.startMarker)})
	}
	return table, hook.list(), nil
}

// PageTables returns the reconstructed table of every page, before
// start-marker assembly.
func (e *Extractor) PageTables() ([]model.PageTable, []Warning, error) {
	v, hook, err := e.run()
	if err != nil {
		return nil, nil, err
	}
	defer v.Close()
	return v.Pages(), hook.list(), nil
}

// Recognized returns the OCR rows of every page in page order. It is empty
// unless the OCR strategy is selected.
func (e *Extractor) Recognized() (model.RecognizedRows, []Warning, error) {
	v, hook, err := e.run()
	if err != nil {
		return nil, nil, err
	}
	defer v.Close()
	return v.Recognized(), hook.list(), nil
}

// RenderPage draws page n (1-based) and returns the image.
func (e *Extractor) RenderPage(n int) (image.Image, error) {
	if e.err != nil {
		return nil, e.err
	}
	doc, err := e.document()
	if err != nil {
		return nil, err
	}
	page, err := doc.Page(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrPageOutOfRange, err)
	}

	log, _ := e.logger()
	c := render.NewController(render.Config{
		Scale:    e.options.scale,
		Rotation: e.options.rotation,
		Logger:   log,
	})
	c.SetPageCount(doc.NumPages())

	s, err := c.RenderPage(e.options.ctx, page, n)
	if err != nil {
		return nil, err
	}
	if err := s.Wait(e.options.ctx); err != nil {
		return nil, err
	}
	img, _ := c.Surface().Snapshot()
	return img, nil
}

// document loads the source as a reader.Document
func (e *Extractor) document() (*reader.Document, error) {
	if e.doc != nil {
		return e.doc, nil
	}

	data := e.data
	if data == nil {
		if e.filename == "" {
			return nil, fmt.Errorf("no filename specified")
		}
		b, err := os.ReadFile(e.filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open PDF: %w", err)
		}
		data = b
	}

	doc, err := reader.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return doc, nil
}

// logger builds the logger handed to the pipeline. Warnings are always
// captured; everything at or above the user logger's level is forwarded.
func (e *Extractor) logger() (*logrus.Logger, *warningHook) {
	hook := &warningHook{}
	l := logging.Discard()
	l.SetLevel(logrus.WarnLevel)
	l.AddHook(hook)
	if e.options.logger != nil {
		l.AddHook(forwardHook{target: e.options.logger})
		if e.options.logger.GetLevel() > l.GetLevel() {
			l.SetLevel(e.options.logger.GetLevel())
		}
	}
	return l, hook
}

// run loads the document into a viewer and waits for the extraction pass
func (e *Extractor) run() (*viewer.Viewer, *warningHook, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	doc, err := e.document()
	if err != nil {
		return nil, nil, err
	}

	log, hook := e.logger()
	config := viewer.DefaultConfig()
	config.Logger = log
	config.StartMarker = e.options.startMarker
	config.Extract = e.options.extractConfig()
	config.Render.Scale = e.options.scale
	config.Render.Rotation = e.options.rotation

	v, err := viewer.New(config, viewer.LoaderFunc(func(ctx context.Context, _ []byte) (viewer.Document, error) {
		return viewer.FromReader(doc), nil
	}))
	if err != nil {
		return nil, nil, err
	}

	ctx := e.options.ctx
	if err := v.SelectFile(ctx, nil); err != nil {
		v.Close()
		return nil, nil, err
	}
	if err := v.WaitReady(ctx); err != nil {
		v.Close()
		return nil, nil, err
	}
	return v, hook, nil
}

// forwardHook copies entries to another logger
type forwardHook struct {
	target *logrus.Logger
}

func (h forwardHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h forwardHook) Fire(entry *logrus.Entry) error {
	h.target.WithFields(entry.Data).Log(entry.Level, entry.Message)
	return nil
}
