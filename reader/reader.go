package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/revtable/raster"
	"github.com/tsawler/revtable/text"
)

// ErrInvalidDocument is returned when the input cannot be read as a PDF.
var ErrInvalidDocument = errors.New("invalid document")

// ErrPageNotFound is returned for page numbers outside the document.
var ErrPageNotFound = errors.New("page not found")

// Default page size (US Letter) used when a page has no usable MediaBox
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Config holds configuration for loading documents
type Config struct {
	// Text controls run normalization, merging and line-end marking
	Text text.Config

	// Raster controls page rendering
	Raster raster.Config
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Text:   text.DefaultConfig(),
		Raster: raster.DefaultConfig(),
	}
}

// Document is a loaded PDF.
type Document struct {
	pdf        *pdf.Reader
	numPages   int
	config     Config
	rasterizer *raster.Rasterizer

	mu    sync.Mutex
	pages map[int]*Page
}

// Open reads and loads the PDF at path.
func Open(path string) (*Document, error) {
	return OpenWithConfig(path, DefaultConfig())
}

// OpenWithConfig reads and loads the PDF at path with custom configuration.
func OpenWithConfig(path string, config Config) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return LoadWithConfig(data, config)
}

// Load parses an in-memory PDF.
func Load(data []byte) (*Document, error) {
	return LoadWithConfig(data, DefaultConfig())
}

// LoadWithConfig parses an in-memory PDF with custom configuration.
func LoadWithConfig(data []byte, config Config) (doc *Document, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDocument)
	}

	// The parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrInvalidDocument, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	rasterizer, err := raster.NewRasterizerWithConfig(config.Raster)
	if err != nil {
		return nil, err
	}

	return &Document{
		pdf:        r,
		numPages:   r.NumPage(),
		config:     config,
		rasterizer: rasterizer,
		pages:      make(map[int]*Page),
	}, nil
}

// NumPages returns the number of pages.
func (d *Document) NumPages() int {
	return d.numPages
}

// Page returns page n, counting from 1.
func (d *Document) Page(n int) (*Page, error) {
	if n < 1 || n > d.numPages {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageNotFound, n, d.numPages)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pages[n]; ok {
		return p, nil
	}

	p, err := d.loadPage(n)
	if err != nil {
		return nil, err
	}
	d.pages[n] = p
	return p, nil
}

func (d *Document) loadPage(n int) (page *Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			page = nil
			err = fmt.Errorf("failed to load page %d: %v", n, r)
		}
	}()

	src := d.pdf.Page(n)
	if src.V.IsNull() {
		return nil, fmt.Errorf("%w: %d", ErrPageNotFound, n)
	}

	box := mediaBox(src.V)
	return &Page{
		number:   n,
		src:      src,
		box:      box,
		rotation: int(inherited(src.V, "Rotate").Int64()),
		doc:      d,
	}, nil
}

// Box is a page rectangle in user space.
type Box struct {
	LLX, LLY, URX, URY float64
}

// Width returns the box width.
func (b Box) Width() float64 { return b.URX - b.LLX }

// Height returns the box height.
func (b Box) Height() float64 { return b.URY - b.LLY }

// inherited looks key up on the page and then up the Parent chain
func inherited(v pdf.Value, key string) pdf.Value {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		if val := v.Key(key); !val.IsNull() {
			return val
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// mediaBox returns the page's MediaBox, falling back to US Letter
func mediaBox(page pdf.Value) Box {
	v := inherited(page, "MediaBox")
	if v.Kind() != pdf.Array || v.Len() < 4 {
		return Box{URX: defaultPageWidth, URY: defaultPageHeight}
	}

	b := Box{
		LLX: v.Index(0).Float64(),
		LLY: v.Index(1).Float64(),
		URX: v.Index(2).Float64(),
		URY: v.Index(3).Float64(),
	}
	if b.URX < b.LLX {
		b.LLX, b.URX = b.URX, b.LLX
	}
	if b.URY < b.LLY {
		b.LLY, b.URY = b.URY, b.LLY
	}
	if b.Width() <= 0 || b.Height() <= 0 {
		return Box{URX: defaultPageWidth, URY: defaultPageHeight}
	}
	return b
}
