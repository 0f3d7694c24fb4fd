package render

import (
	"context"
	"sync"
)

// Session is one render of one page.
type Session struct {
	id     uint64
	page   int
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	err       error
	cancelled bool
}

func newSession(id uint64, page int, cancel context.CancelFunc) *Session {
	return &Session{
		id:     id,
		page:   page,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns the controller-unique session number.
func (s *Session) ID() uint64 {
	return s.id
}

// Page returns the page number being rendered.
func (s *Session) Page() int {
	return s.page
}

// Cancel requests cancellation. It does not wait. A cancelled session never
// commits its frame, even if drawing finishes afterwards.
func (s *Session) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
	s.cancel()
}

func (s *Session) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Done is closed when the session has finished.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the outcome once Done is closed, nil before that.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the session finishes or ctx is done and returns the
// session's outcome, or ctx.Err() if ctx ended first.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.cancel()
	close(s.done)
}
