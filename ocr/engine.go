package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/sirupsen/logrus"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "kor"

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Progress describes a recognition step.
type Progress struct {
	// Status names the step, e.g. "encoding image" or "recognizing text"
	Status string

	// Fraction is the completed share of the work, 0.0 to 1.0
	Fraction float64
}

// ProgressFunc observes recognition progress. It may be nil.
type ProgressFunc func(Progress)

func (f ProgressFunc) report(status string, fraction float64) {
	if f != nil {
		f(Progress{Status: status, Fraction: fraction})
	}
}

// Engine recognizes plain text on an image.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, lang string, progress ProgressFunc) (string, error)
}

// EngineFunc adapts an ordinary function to the Engine interface.
type EngineFunc func(ctx context.Context, img image.Image, lang string, progress ProgressFunc) (string, error)

// Recognize calls f.
func (f EngineFunc) Recognize(ctx context.Context, img image.Image, lang string, progress ProgressFunc) (string, error) {
	return f(ctx, img, lang, progress)
}

// LogProgress returns a ProgressFunc that writes each step to log at debug level.
func LogProgress(log logrus.FieldLogger) ProgressFunc {
	return func(p Progress) {
		log.WithFields(logrus.Fields{
			"status":   p.Status,
			"progress": p.Fraction,
		}).Debug("ocr progress")
	}
}

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes, numbered as Tesseract numbers them.
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// EncodePNG encodes img as PNG for engines that take encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
