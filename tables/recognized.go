package tables

import (
	"sync"

	"github.com/tsawler/revtable/model"
)

// Recognized is an append-only accumulator of OCR rows shared by every page
// processed during one document session. It is safe for concurrent use.
type Recognized struct {
	mu   sync.Mutex
	rows model.RecognizedRows
}

// Append adds rows to the running output.
func (r *Recognized) Append(rows model.RecognizedRows) {
	if len(rows) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.rows = append(r.rows, append([]string(nil), row...))
	}
}

// Rows returns a copy of every row appended so far.
func (r *Recognized) Rows() model.RecognizedRows {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(model.RecognizedRows, len(r.rows))
	for i, row := range r.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Len returns the number of rows appended so far.
func (r *Recognized) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Reset discards all rows, for a new document.
func (r *Recognized) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = nil
}
