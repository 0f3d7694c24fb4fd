package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/revtable/extract"
	"github.com/tsawler/revtable/internal/logging"
	"github.com/tsawler/revtable/model"
	"github.com/tsawler/revtable/reader"
	"github.com/tsawler/revtable/render"
	"github.com/tsawler/revtable/tables"
)

var (
	// ErrNoDocument is returned by navigation when nothing is loaded.
	ErrNoDocument = errors.New("no document loaded")

	// ErrBusy is returned by navigation while a document is loading.
	ErrBusy = errors.New("document is loading")

	// ErrSuperseded is returned by a load that a newer selection replaced.
	ErrSuperseded = errors.New("load superseded by a newer selection")
)

// State is the lifecycle state of a Viewer
type State int

const (
	// Empty means no document is loaded
	Empty State = iota

	// Loading means a document is being parsed
	Loading

	// Loaded means a document is open
	Loaded
)

// String returns a string representation of the state
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "empty"
	}
}

// Status is a snapshot of the viewer state.
type Status struct {
	State       State
	NumPages    int
	CurrentPage int
}

// Config holds configuration for a Viewer
type Config struct {
	// Render configures the page render controller
	Render render.Config

	// Extract configures per-page extraction
	Extract extract.Config

	// StartMarker is the first-left-cell text that opens the table; empty
	// collects from the first page
	StartMarker string

	// RecognizeOnRender runs OCR on every committed render and appends the
	// rows to Recognized. The extraction pass then stops appending its own
	// OCR rows, so a page is never counted twice.
	RecognizeOnRender bool

	// Concurrency bounds the extraction pass (default: 4)
	Concurrency int

	// Logger receives lifecycle events; nil discards them
	Logger logrus.FieldLogger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Render:      render.DefaultConfig(),
		Extract:     extract.DefaultConfig(),
		Concurrency: 4,
	}
}

// Viewer holds one open document.
type Viewer struct {
	config     Config
	log        logrus.FieldLogger
	loader     Loader
	extractor  extract.PageTextExtractor
	recognizer *extract.Raster
	controller *render.Controller
	recognized tables.Recognized

	mu         sync.Mutex
	state      State
	doc        Document
	numPages   int
	current    int
	pages      []model.PageTable
	table      model.LogicalTable
	seq        uint64
	passCancel context.CancelFunc
	passDone   chan struct{}
}

// New creates a Viewer. A nil loader reads PDFs with the reader package.
func New(config Config, loader Loader) (*Viewer, error) {
	if loader == nil {
		loader = ReaderLoader{Config: reader.DefaultConfig()}
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}

	log := logging.OrDiscard(config.Logger)
	if config.Extract.Logger == nil {
		config.Extract.Logger = log
	}
	if config.Render.Logger == nil {
		config.Render.Logger = log
	}

	v := &Viewer{config: config, log: log, loader: loader}

	// The pass publishes OCR rows itself, in page order
	exConfig := config.Extract
	exConfig.Recognized = nil
	if marker := strings.TrimSpace(config.StartMarker); marker != "" {
		protect := make([]string, 0, len(exConfig.Furniture.Protect)+1)
		protect = append(protect, exConfig.Furniture.Protect...)
		exConfig.Furniture.Protect = append(protect, marker)
	}
	ex, err := extract.New(exConfig)
	if err != nil {
		return nil, err
	}
	v.extractor = ex

	if config.RecognizeOnRender {
		if r, ok := ex.(*extract.Raster); ok {
			v.recognizer = r
		} else {
			ocrConfig := exConfig
			ocrConfig.Strategy = extract.StrategyOCR
			r, err := extract.NewRaster(ocrConfig)
			if err != nil {
				return nil, err
			}
			v.recognizer = r
		}
		hook := config.Render.OnRendered
		config.Render.OnRendered = func(ctx context.Context, pageNumber int, frame image.Image) {
			v.recognizeRendered(ctx, pageNumber, frame)
			if hook != nil {
				hook(ctx, pageNumber, frame)
			}
		}
	}

	v.controller = render.NewController(config.Render)
	return v, nil
}

// Open reads path and selects it.
func (v *Viewer) Open(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return v.SelectFile(ctx, data)
}

// SelectFile replaces any open document with data. Page count, current
// page, tables and recognized rows are reset before loading. On a load
// error the viewer returns to Empty. On success page 1 is rendered and the
// extraction pass starts in the background.
func (v *Viewer) SelectFile(ctx context.Context, data []byte) error {
	v.mu.Lock()
	v.resetLocked()
	v.seq++
	seq := v.seq
	v.state = Loading
	v.mu.Unlock()
	v.resetRendering()

	v.log.WithField("bytes", len(data)).Info("loading document")
	doc, err := v.loader.Load(ctx, data)

	v.mu.Lock()
	if seq != v.seq {
		v.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		v.state = Empty
		v.mu.Unlock()
		v.log.WithError(err).Error("failed to load document")
		return fmt.Errorf("load document: %w", err)
	}

	n := doc.NumPages()
	v.doc = doc
	v.numPages = n
	v.current = 1
	v.pages = make([]model.PageTable, n)
	v.state = Loaded
	v.controller.SetPageCount(n)

	passCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	v.passCancel = cancel
	v.passDone = done
	v.mu.Unlock()

	v.log.WithField("pages", n).Info("document loaded")

	go v.runPass(passCtx, seq, doc, n, done)

	if n > 0 {
		if _, err := v.show(ctx, doc, 1); err != nil {
			v.log.WithError(err).Error("failed to start initial render")
		}
	}
	return nil
}

// resetLocked drops the open document and everything derived from it
func (v *Viewer) resetLocked() {
	if v.passCancel != nil {
		v.passCancel()
		v.passCancel = nil
	}
	v.passDone = nil
	v.recognized.Reset()

	v.doc = nil
	v.numPages = 0
	v.current = 0
	v.pages = nil
	v.table = model.LogicalTable{}
	v.state = Empty
}

// resetRendering stops the in-flight render and blanks the surface. It may
// wait for the render to stop, so it runs without v.mu held.
func (v *Viewer) resetRendering() {
	v.controller.Cancel()
	v.controller.SetPageCount(0)
	v.controller.Surface().Clear()
}

// runPass extracts every page and publishes the assembled table
func (v *Viewer) runPass(ctx context.Context, seq uint64, doc Document, n int, done chan struct{}) {
	defer close(done)

	log := v.log.WithField("pages", n)
	results := make([]extract.Extraction, n)
	pages := make([]extract.Page, n)

	for i := 0; i < n; i++ {
		p, err := doc.Page(i + 1)
		if err != nil {
			log.WithField("page", i+1).WithError(err).Warn("failed to open page")
			continue
		}
		pages[i] = p
	}

	if primer, ok := v.extractor.(extract.Primer); ok {
		var present []extract.Page
		for _, p := range pages {
			if p != nil {
				present = append(present, p)
			}
		}
		if err := primer.Prime(ctx, present); err != nil {
			log.WithError(err).Warn("failed to prime extractor")
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.config.Concurrency)
	for i, p := range pages {
		i, p := i, p
		results[i] = extract.Extraction{Page: i + 1, Table: model.PageTable{Page: i + 1}}
		if p == nil {
			continue
		}
		g.Go(func() error {
			ex, err := v.extractor.Extract(gctx, p)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.WithField("page", i+1).WithError(err).Warn("failed to extract page")
				return nil
			}
			results[i] = ex
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Info("extraction pass stopped")
		return
	}

	tablesByPage := make([]model.PageTable, n)
	for i, r := range results {
		tablesByPage[i] = r.Table
	}
	table := tables.Assemble(tablesByPage, v.config.StartMarker)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return
	}
	v.pages = tablesByPage
	v.table = table
	// With RecognizeOnRender the rendered pages supply the OCR rows
	if v.recognizer == nil {
		for _, r := range results {
			v.recognized.Append(r.Rows)
		}
	}
	log.WithField("rows", table.RowCount()).Info("table assembled")
}

// recognizeRendered runs OCR on a committed frame
func (v *Viewer) recognizeRendered(ctx context.Context, pageNumber int, frame image.Image) {
	ex, err := v.recognizer.RecognizeFrame(ctx, pageNumber, frame)
	if err != nil {
		v.log.WithField("page", pageNumber).WithError(err).Warn("failed to recognize rendered page")
		return
	}
	v.recognized.Append(ex.Rows)
}

// WaitReady blocks until the extraction pass of the open document has
// finished. It returns ErrNoDocument when nothing is loaded.
func (v *Viewer) WaitReady(ctx context.Context) error {
	v.mu.Lock()
	done := v.passDone
	state := v.state
	v.mu.Unlock()

	if state != Loaded || done == nil {
		return ErrNoDocument
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next renders the following page. At the last page it does nothing and
// returns a nil session.
func (v *Viewer) Next(ctx context.Context) (*render.Session, error) {
	return v.step(ctx, 1)
}

// Previous renders the preceding page. At page 1 it does nothing and
// returns a nil session.
func (v *Viewer) Previous(ctx context.Context) (*render.Session, error) {
	return v.step(ctx, -1)
}

func (v *Viewer) step(ctx context.Context, delta int) (*render.Session, error) {
	v.mu.Lock()
	if err := v.readyLocked(); err != nil {
		v.mu.Unlock()
		return nil, err
	}
	target := v.current + delta
	doc := v.doc
	v.mu.Unlock()

	if target < 1 || target > doc.NumPages() {
		return nil, nil
	}
	return v.show(ctx, doc, target)
}

// GoTo renders page n.
func (v *Viewer) GoTo(ctx context.Context, n int) (*render.Session, error) {
	v.mu.Lock()
	if err := v.readyLocked(); err != nil {
		v.mu.Unlock()
		return nil, err
	}
	doc := v.doc
	v.mu.Unlock()

	if n < 1 || n > doc.NumPages() {
		return nil, fmt.Errorf("%w: %d of %d", render.ErrPageOutOfRange, n, doc.NumPages())
	}
	return v.show(ctx, doc, n)
}

func (v *Viewer) readyLocked() error {
	switch v.state {
	case Loading:
		return ErrBusy
	case Empty:
		return ErrNoDocument
	}
	return nil
}

// show makes n the current page and starts rendering it
func (v *Viewer) show(ctx context.Context, doc Document, n int) (*render.Session, error) {
	page, err := doc.Page(n)
	if err != nil {
		return nil, fmt.Errorf("failed to open page %d: %w", n, err)
	}

	v.mu.Lock()
	if v.doc != doc {
		v.mu.Unlock()
		return nil, ErrSuperseded
	}
	v.current = n
	v.mu.Unlock()

	return v.controller.RenderPage(ctx, page, n)
}

// Status returns the current lifecycle state.
func (v *Viewer) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Status{State: v.state, NumPages: v.numPages, CurrentPage: v.current}
}

// Table returns the assembled table, empty until the pass finishes.
func (v *Viewer) Table() model.LogicalTable {
	v.mu.Lock()
	defer v.mu.Unlock()
	return model.LogicalTable{
		LeftColumn:  append([]string(nil), v.table.LeftColumn...),
		RightColumn: append([]string(nil), v.table.RightColumn...),
	}
}

// Pages returns the per-page tables of the last finished pass.
func (v *Viewer) Pages() []model.PageTable {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.PageTable(nil), v.pages...)
}

// Recognized returns every OCR row gathered so far.
func (v *Viewer) Recognized() model.RecognizedRows {
	return v.recognized.Rows()
}

// Surface returns the display surface.
func (v *Viewer) Surface() *render.Surface {
	return v.controller.Surface()
}

// Close stops all work, drops the document and releases the OCR engine.
func (v *Viewer) Close() error {
	v.mu.Lock()
	v.resetLocked()
	v.seq++
	v.mu.Unlock()
	v.resetRendering()

	var err error
	if r, ok := v.extractor.(*extract.Raster); ok {
		err = r.Close()
	}
	if v.recognizer != nil && v.recognizer != v.extractor {
		if cerr := v.recognizer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
