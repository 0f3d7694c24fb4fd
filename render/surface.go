package render

import (
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// Surface is the display target. It holds the last committed frame.
type Surface struct {
	mu    sync.RWMutex
	frame *image.RGBA
	page  int
}

// commit resizes the surface to the frame's bounds and draws the frame
func (s *Surface) commit(frame *image.RGBA, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frame == nil || s.frame.Bounds() != frame.Bounds() {
		s.frame = image.NewRGBA(frame.Bounds())
	}
	draw.Draw(s.frame, s.frame.Bounds(), frame, frame.Bounds().Min, draw.Src)
	s.page = page
}

// Snapshot returns a copy of the displayed frame and its page number.
// Before the first commit it returns nil and 0.
func (s *Surface) Snapshot() (image.Image, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.frame == nil {
		return nil, 0
	}
	cp := image.NewRGBA(s.frame.Bounds())
	copy(cp.Pix, s.frame.Pix)
	return cp, s.page
}

// Bounds returns the current surface size.
func (s *Surface) Bounds() image.Rectangle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.frame == nil {
		return image.Rectangle{}
	}
	return s.frame.Bounds()
}

// Page returns the page number of the displayed frame, 0 if none.
func (s *Surface) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Clear drops the displayed frame.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = nil
	s.page = 0
}
