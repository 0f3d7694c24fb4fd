package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/revtable/model"
)

var (
	fallbackOnce sync.Once
	fallbackFont *truetype.Font
	fallbackErr  error
)

// FallbackFont returns the built-in Go Regular face, parsed once.
func FallbackFont() (*truetype.Font, error) {
	fallbackOnce.Do(func() {
		fallbackFont, fallbackErr = truetype.Parse(goregular.TTF)
		if fallbackErr != nil {
			fallbackErr = fmt.Errorf("failed to parse fallback font: %w", fallbackErr)
		}
	})
	return fallbackFont, fallbackErr
}

// Config holds configuration for rasterization
type Config struct {
	// Font is the face used for every run; nil means the Go Regular face
	Font *truetype.Font

	// Background fills the frame before drawing (default: white)
	Background color.Color

	// Foreground is the text color (default: black)
	Foreground color.Color

	// DefaultFontSize is used for runs that report no size (default: 10)
	DefaultFontSize float64

	// Hinting selects glyph hinting (default: none)
	Hinting font.Hinting
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Background:      color.White,
		Foreground:      color.Black,
		DefaultFontSize: 10,
		Hinting:         font.HintingNone,
	}
}

// Rasterizer draws runs onto images. It is safe for concurrent use.
type Rasterizer struct {
	config Config
}

// NewRasterizer creates a rasterizer with default configuration
func NewRasterizer() (*Rasterizer, error) {
	return NewRasterizerWithConfig(DefaultConfig())
}

// NewRasterizerWithConfig creates a rasterizer with custom configuration
func NewRasterizerWithConfig(config Config) (*Rasterizer, error) {
	if config.Font == nil {
		f, err := FallbackFont()
		if err != nil {
			return nil, err
		}
		config.Font = f
	}
	if config.Background == nil {
		config.Background = color.White
	}
	if config.Foreground == nil {
		config.Foreground = color.Black
	}
	if config.DefaultFontSize <= 0 {
		config.DefaultFontSize = 10
	}
	return &Rasterizer{config: config}, nil
}

// NewFrame allocates an RGBA image sized for vp.
func NewFrame(vp model.Viewport) *image.RGBA {
	return image.NewRGBA(vp.Pixels())
}

// Draw fills dst with the background and paints every run at its device
// position. The context is checked between runs; a cancelled context stops
// drawing and returns ctx.Err(), leaving dst partly drawn.
func (r *Rasterizer) Draw(ctx context.Context, dst draw.Image, vp model.Viewport, runs []model.PositionedRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.config.Background), image.Point{}, draw.Src)

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(r.config.Font)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetSrc(image.NewUniform(r.config.Foreground))
	c.SetHinting(r.config.Hinting)

	scale := vp.Scale
	if scale <= 0 {
		scale = 1
	}

	for i, run := range runs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if run.IsBlank() {
			continue
		}

		size := run.FontSize
		if size <= 0 {
			size = r.config.DefaultFontSize
		}
		c.SetFontSize(size * scale)

		x, y := vp.ToDevice(run.X, run.Y)
		if _, err := c.DrawString(run.Text, point(x, y)); err != nil {
			return fmt.Errorf("failed to draw run %d: %w", i, err)
		}
	}

	return nil
}

// point converts device coordinates to a 26.6 fixed point
func point(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(x * 64)),
		Y: fixed.Int26_6(math.Round(y * 64)),
	}
}

// Upscale returns src scaled by factor with bilinear filtering. Factors at
// or below 1 return a plain RGBA copy.
func Upscale(src image.Image, factor float64) *image.RGBA {
	b := src.Bounds()
	if factor <= 1 {
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	w := int(math.Ceil(float64(b.Dx()) * factor))
	h := int(math.Ceil(float64(b.Dy()) * factor))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// ToGray converts src to 8-bit grayscale.
func ToGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
