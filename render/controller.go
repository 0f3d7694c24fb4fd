package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/tsawler/revtable/internal/logging"
	"github.com/tsawler/revtable/model"
)

// ErrRenderCancelled is the outcome of a session that was cancelled or
// superseded before its frame was committed.
var ErrRenderCancelled = errors.New("render cancelled")

// ErrPageOutOfRange is returned for page numbers outside [1, page count].
var ErrPageOutOfRange = errors.New("page out of range")

// Page is anything that can describe and draw one page.
type Page interface {
	Viewport(scale float64, rotation int) model.Viewport
	Render(ctx context.Context, dst draw.Image, vp model.Viewport) error
}

// RenderedFunc observes committed frames.
type RenderedFunc func(ctx context.Context, pageNumber int, frame image.Image)

// Config holds configuration for the render controller
type Config struct {
	// Scale is the viewport scale (default: 1.5)
	Scale float64

	// Rotation is the extra clockwise rotation in degrees (default: 0)
	Rotation int

	// CancelWait bounds the wait for a cancelled session to stop before the
	// next one starts (default: 2s)
	CancelWait time.Duration

	// OnRendered runs after a frame is committed, outside the render slot
	OnRendered RenderedFunc

	// Logger receives render events; nil discards them
	Logger logrus.FieldLogger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Scale:      1.5,
		CancelWait: 2 * time.Second,
	}
}

// Controller serializes page renders onto one Surface.
type Controller struct {
	config  Config
	log     logrus.FieldLogger
	surface *Surface

	// start serializes RenderPage so cancel-then-start is atomic
	start sync.Mutex

	mu        sync.Mutex
	current   *Session
	seq       uint64
	pageCount int
}

// NewController creates a controller with the given configuration.
func NewController(config Config) *Controller {
	if config.Scale <= 0 {
		config.Scale = 1.5
	}
	if config.CancelWait <= 0 {
		config.CancelWait = 2 * time.Second
	}
	return &Controller{
		config:  config,
		log:     logging.OrDiscard(config.Logger),
		surface: &Surface{},
	}
}

// Surface returns the display surface.
func (c *Controller) Surface() *Surface {
	return c.surface
}

// SetPageCount sets the number of pages of the loaded document. 0 means no
// document is loaded and every RenderPage call fails.
func (c *Controller) SetPageCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageCount = n
}

// Current returns the in-flight session, or nil when the slot is empty.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// RenderPage cancels any in-flight render, waits for it to stop (at most
// CancelWait), and starts rendering page into an offscreen frame. It returns
// once the new session is running.
func (c *Controller) RenderPage(ctx context.Context, page Page, pageNumber int) (*Session, error) {
	c.mu.Lock()
	count := c.pageCount
	c.mu.Unlock()
	if pageNumber < 1 || pageNumber > count {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, pageNumber, count)
	}
	if page == nil {
		return nil, fmt.Errorf("no page for page number %d", pageNumber)
	}

	c.start.Lock()
	defer c.start.Unlock()

	c.cancelActive()

	sctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.seq++
	s := newSession(c.seq, pageNumber, cancel)
	c.current = s
	c.mu.Unlock()

	vp := page.Viewport(c.config.Scale, c.config.Rotation)
	c.log.WithFields(logrus.Fields{"page": pageNumber, "session": s.id}).Debug("render started")

	go c.run(ctx, sctx, s, page, vp)
	return s, nil
}

// Cancel cancels the in-flight render, if any, and waits for it to stop.
func (c *Controller) Cancel() {
	c.start.Lock()
	defer c.start.Unlock()
	c.cancelActive()
}

func (c *Controller) cancelActive() {
	c.mu.Lock()
	prev := c.current
	c.mu.Unlock()
	if prev == nil {
		return
	}

	prev.Cancel()

	timer := time.NewTimer(c.config.CancelWait)
	defer timer.Stop()
	select {
	case <-prev.Done():
	case <-timer.C:
		c.log.WithFields(logrus.Fields{"page": prev.page, "session": prev.id}).Warn("failed to cancel render task")
	}

	c.mu.Lock()
	if c.current == prev {
		c.current = nil
	}
	c.mu.Unlock()
}

func (c *Controller) run(parent, ctx context.Context, s *Session, page Page, vp model.Viewport) {
	log := c.log.WithFields(logrus.Fields{"page": s.page, "session": s.id})

	frame := image.NewRGBA(vp.Pixels())
	err := page.Render(ctx, frame, vp)

	committed := false
	c.mu.Lock()
	current := c.current == s
	if current {
		c.current = nil
	}
	if err == nil {
		if current && !s.isCancelled() {
			c.surface.commit(frame, s.page)
			committed = true
		} else {
			// Cancelled or superseded while drawing
			err = ErrRenderCancelled
		}
	}
	c.mu.Unlock()

	switch {
	case err == nil:
		log.Debug("render committed")
	case errors.Is(err, context.Canceled) || errors.Is(err, ErrRenderCancelled):
		log.Info("render cancelled")
		err = ErrRenderCancelled
	default:
		log.WithError(err).Error("render failed")
		err = fmt.Errorf("render page %d: %w", s.page, err)
	}

	s.finish(err)

	if committed && c.config.OnRendered != nil {
		c.config.OnRendered(parent, s.page, frame)
	}
}
