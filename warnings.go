package revtable

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Warning is a non-fatal problem met during extraction.
type Warning struct {
	// Page is the 1-based page the warning concerns, 0 for the whole document
	Page int

	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into one line.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// warningHook turns warn-level log entries into Warnings
type warningHook struct {
	mu       sync.Mutex
	warnings []Warning
}

func (h *warningHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.WarnLevel}
}

func (h *warningHook) Fire(entry *logrus.Entry) error {
	w := Warning{Message: entry.Message}
	if page, ok := entry.Data["page"].(int); ok {
		w.Page = page
	}
	if err, ok := entry.Data[logrus.ErrorKey].(error); ok {
		w.Message += ": " + err.Error()
	}

	h.mu.Lock()
	h.warnings = append(h.warnings, w)
	h.mu.Unlock()
	return nil
}

func (h *warningHook) add(w Warning) {
	h.mu.Lock()
	h.warnings = append(h.warnings, w)
	h.mu.Unlock()
}

func (h *warningHook) list() []Warning {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Warning(nil), h.warnings...)
}
