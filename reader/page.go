package reader

import (
	"context"
	"fmt"
	"sync"

	"github.com/ledongthuc/pdf"
	"golang.org/x/image/draw"

	"github.com/tsawler/revtable/model"
	"github.com/tsawler/revtable/text"
)

// Page is one page of a Document.
type Page struct {
	number   int
	src      pdf.Page
	box      Box
	rotation int
	doc      *Document

	once sync.Once
	runs []model.PositionedRun
	err  error
}

// Number returns the 1-based page number.
func (p *Page) Number() int {
	return p.number
}

// MediaBox returns the page rectangle in user space.
func (p *Page) MediaBox() Box {
	return p.box
}

// Size returns the page width and height in user space, ignoring rotation.
func (p *Page) Size() (float64, float64) {
	return p.box.Width(), p.box.Height()
}

// Rotation returns the page's own /Rotate value, normalized.
func (p *Page) Rotation() int {
	return model.NormalizeRotation(p.rotation)
}

// Viewport returns the pixel geometry of the page at scale with an extra
// clockwise rotation applied on top of the page's own.
func (p *Page) Viewport(scale float64, rotation int) model.Viewport {
	if scale <= 0 {
		scale = 1
	}
	rot := model.NormalizeRotation(p.rotation + rotation)
	w, h := p.box.Width()*scale, p.box.Height()*scale
	if rot == 90 || rot == 270 {
		w, h = h, w
	}
	return model.Viewport{Width: w, Height: h, Scale: scale, Rotation: rot}
}

// TextRuns returns the positioned runs of the page in content-stream order,
// relative to the MediaBox origin, normalized, merged into words and marked with line ends. The result is
// cached; callers must not modify it.
func (p *Page) TextRuns() ([]model.PositionedRun, error) {
	p.once.Do(func() {
		raw, err := p.rawRuns()
		if err != nil {
			p.err = err
			return
		}
		p.runs = text.Prepare(raw, p.doc.config.Text)
	})
	return p.runs, p.err
}

// rawRuns reads glyph-level runs from the content stream
func (p *Page) rawRuns() (runs []model.PositionedRun, err error) {
	// Content panics on malformed streams
	defer func() {
		if r := recover(); r != nil {
			runs = nil
			err = fmt.Errorf("failed to read content of page %d: %v", p.number, r)
		}
	}()

	content := p.src.Content()
	runs = make([]model.PositionedRun, 0, len(content.Text))
	for _, t := range content.Text {
		runs = append(runs, model.PositionedRun{
			Text:     t.S,
			X:        t.X - p.box.LLX,
			Y:        t.Y - p.box.LLY,
			Width:    t.W,
			FontSize: t.FontSize,
		})
	}
	return runs, nil
}

// Render draws the page's text into dst using vp.
func (p *Page) Render(ctx context.Context, dst draw.Image, vp model.Viewport) error {
	runs, err := p.TextRuns()
	if err != nil {
		return err
	}
	if err := p.doc.rasterizer.Draw(ctx, dst, vp, runs); err != nil {
		return fmt.Errorf("failed to render page %d: %w", p.number, err)
	}
	return nil
}
