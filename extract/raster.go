package extract

import (
	"context"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/revtable/internal/logging"
	"github.com/tsawler/revtable/layout"
	"github.com/tsawler/revtable/model"
	"github.com/tsawler/revtable/ocr"
	"github.com/tsawler/revtable/raster"
)

// Raster recognizes text on rendered pages.
type Raster struct {
	config Config
	log    logrus.FieldLogger
	engine ocr.Engine

	// client is set when the extractor opened its own Tesseract client
	client *ocr.Client
}

// NewRaster creates an OCR extractor. Without config.Engine it opens a
// Tesseract client that Close releases.
func NewRaster(config Config) (*Raster, error) {
	if config.Language == "" {
		config.Language = ocr.DefaultLanguage
	}
	if config.Scale <= 0 {
		config.Scale = 1.5
	}

	r := &Raster{
		config: config,
		log:    logging.OrDiscard(config.Logger),
		engine: config.Engine,
	}
	if r.engine == nil {
		client, err := ocr.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create OCR engine: %w", err)
		}
		r.engine = client
		r.client = client
	}
	return r, nil
}

// Strategy returns StrategyOCR.
func (r *Raster) Strategy() Strategy {
	return StrategyOCR
}

// Close releases the Tesseract client if this extractor created it.
func (r *Raster) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Extract renders page offscreen and recognizes its rows.
func (r *Raster) Extract(ctx context.Context, page Page) (Extraction, error) {
	n := page.Number()
	log := r.log.WithFields(logrus.Fields{"page": n, "strategy": StrategyOCR.String()})

	vp := page.Viewport(r.config.Scale, 0)
	frame := raster.NewFrame(vp)
	if err := page.Render(ctx, frame, vp); err != nil {
		return Extraction{Page: n}, fmt.Errorf("failed to render page %d for OCR: %w", n, err)
	}

	return r.recognize(ctx, n, frame, log)
}

// RecognizeFrame runs recognition on an already rendered frame of page n.
func (r *Raster) RecognizeFrame(ctx context.Context, n int, frame image.Image) (Extraction, error) {
	return r.recognize(ctx, n, frame, r.log.WithFields(logrus.Fields{"page": n, "strategy": StrategyOCR.String()}))
}

// recognize converts frame to rows and appends them to the Recognized
// accumulator, if any
func (r *Raster) recognize(ctx context.Context, n int, frame image.Image, log logrus.FieldLogger) (Extraction, error) {
	var img image.Image = frame
	if r.config.Upscale > 1 {
		img = raster.Upscale(frame, r.config.Upscale)
	}

	txt, err := r.engine.Recognize(ctx, img, r.config.Language, ocr.LogProgress(log))
	if err != nil {
		return Extraction{Page: n}, fmt.Errorf("failed to recognize page %d: %w", n, err)
	}

	rows := layout.RecognizedRows(txt)
	if r.config.Recognized != nil {
		r.config.Recognized.Append(rows)
	}
	log.WithField("rows", len(rows)).Debug("page recognized")

	return Extraction{Page: n, Table: model.PageTable{Page: n}, Rows: rows}, nil
}
